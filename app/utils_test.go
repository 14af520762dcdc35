package app

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/require"

	actx "go.hackfix.me/reflow/app/context"
	"go.hackfix.me/reflow/db"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type testTime struct{}

var _ actx.TimeSource = testTime{}

func (testTime) Now() time.Time {
	return timeNow
}

type testApp struct {
	*App
	fs             vfs.FileSystem
	d              *db.DB
	stdout, stderr *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// A unique name per app, to avoid clashing of in-memory SQLite DBs.
	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	// Not using just :memory: to avoid 'no such table' issue.
	// See https://github.com/mattn/go-sqlite3#faq
	d, err := db.Open(t.Context(),
		fmt.Sprintf("file:reflow-%x?mode=memory&cache=shared", rndName),
		testTime{}.Now)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = d.Close()
	})

	var (
		fs     = memoryfs.New()
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	)
	opts := []Option{
		WithTimeSource(testTime{}),
		WithEnv(&mockEnv{env: map[string]string{}}),
		WithDB(d),
		WithContext(t.Context()),
		WithFDs(strings.NewReader(""), stdout, stderr),
		WithFS(fs),
		WithLogger(false, false),
	}
	app, err := New("reflow", "/config.json", "/data", opts...)
	require.NoError(t, err)

	return &testApp{App: app, fs: fs, d: d, stdout: stdout, stderr: stderr}
}

func (ta *testApp) Run(args ...string) error {
	ta.stdout.Reset()
	ta.stderr.Reset()
	return ta.App.Run(args)
}

func (ta *testApp) writeMigration(t *testing.T, version, upSQL, downSQL string) {
	t.Helper()

	require.NoError(t, ta.fs.MkdirAll("/migrations", 0o755))
	err := vfs.WriteFile(ta.fs,
		fmt.Sprintf("/migrations/%s.up.sql", version), []byte(upSQL), 0o644)
	require.NoError(t, err)
	err = vfs.WriteFile(ta.fs,
		fmt.Sprintf("/migrations/%s.down.sql", version), []byte(downSQL), 0o644)
	require.NoError(t, err)
}

type mockEnv struct {
	mx  sync.RWMutex
	env map[string]string
}

var _ actx.Environment = (*mockEnv)(nil)

func (me *mockEnv) Get(key string) string {
	me.mx.RLock()
	defer me.mx.RUnlock()
	return me.env[key]
}

func (me *mockEnv) Set(key, val string) error {
	me.mx.Lock()
	defer me.mx.Unlock()
	me.env[key] = val
	return nil
}
