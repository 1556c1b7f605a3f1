package core

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestLookPath(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/first/tool", 0755)
	writeFile(t, fsys, "/second/tool", 0755)
	writeFile(t, fsys, "/second/only-second", 0700)
	writeFile(t, fsys, "/first/data", 0644)
	writeFile(t, fsys, "/second/data", 0755)
	assert.Nil(t, fsys.MkdirAll("/first/dir", 0755))
	writeFile(t, fsys, "/second/dir", 0755)
	writeFile(t, fsys, "/cwd-tool", 0755)

	cases := map[string]struct {
		path         string
		file         string
		expectedPath string
		expectedErr  error
	}{
		"first match wins": {
			path:         "/first:/second",
			file:         "tool",
			expectedPath: "/first/tool",
		},
		"order matters": {
			path:         "/second:/first",
			file:         "tool",
			expectedPath: "/second/tool",
		},
		"later directory": {
			path:         "/first:/second",
			file:         "only-second",
			expectedPath: "/second/only-second",
		},
		"skips non-executable": {
			path:         "/first:/second",
			file:         "data",
			expectedPath: "/second/data",
		},
		"skips directories": {
			path:         "/first:/second",
			file:         "dir",
			expectedPath: "/second/dir",
		},
		"missing dirs are skipped": {
			path:         "/nope:/second",
			file:         "tool",
			expectedPath: "/second/tool",
		},
		"not found": {
			path:        "/first:/second",
			file:        "nosuchcmd",
			expectedErr: ErrNotFound,
		},
		"unset PATH": {
			path:        "",
			file:        "tool",
			expectedErr: ErrNotFound,
		},
		"empty name": {
			path:        "/first",
			file:        "",
			expectedErr: ErrNotFound,
		},
		"slash skips PATH": {
			path:         "",
			file:         "/first/tool",
			expectedPath: "/first/tool",
		},
		"slash to directory": {
			path:        "/first:/second",
			file:        "/first/dir",
			expectedErr: fs.ErrPermission,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			path, err := LookPath(fsys, tc.path, tc.file)
			if tc.expectedErr != nil {
				assert.True(t, errors.Is(err, tc.expectedErr), "got error %v", err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.expectedPath, path)
		})
	}
}

func TestResolve(t *testing.T) {
	ts := newTestSession(t)
	ts.env[EnvPath] = "/usr/bin:/bin"
	writeFile(t, ts.Fs, "/bin/cat", 0755)
	// A program shadowed by a builtin is never used.
	writeFile(t, ts.Fs, "/bin/echo", 0755)

	cat := ts.Resolve("cat")
	assert.Equal(t, KindExternal, cat.Kind)
	assert.Equal(t, "/bin/cat", cat.Path)
	// Stable across calls.
	assert.Equal(t, cat, ts.Resolve("cat"))

	echo := ts.Resolve("echo")
	assert.Equal(t, KindBuiltin, echo.Kind)
	assert.Equal(t, "", echo.Path)
	assert.NotNil(t, echo.Builtin)

	missing := ts.Resolve("nosuchcmd")
	assert.Equal(t, KindNotFound, missing.Kind)
	assert.Equal(t, "not found", missing.Kind.String())
}

func TestIsBuiltin(t *testing.T) {
	ts := newTestSession(t)

	for _, name := range []string{"echo", "exit", "type", "pwd", "cd", "history"} {
		assert.True(t, ts.IsBuiltin(name), name)
	}
	for _, name := range []string{"", "ECHO", "cat", "echo "} {
		assert.False(t, ts.IsBuiltin(name), name)
	}
}

func TestCommandsWithPrefix(t *testing.T) {
	ts := newTestSession(t)
	ts.env[EnvPath] = "/usr/bin:/bin:/missing"
	writeFile(t, ts.Fs, "/bin/exa", 0755)
	writeFile(t, ts.Fs, "/usr/bin/exa", 0755)
	writeFile(t, ts.Fs, "/bin/exec-helper", 0755)
	writeFile(t, ts.Fs, "/bin/exfile", 0644)
	writeFile(t, ts.Fs, "/bin/echo", 0755)

	assert.Equal(t, []string{"exa", "exec-helper", "exit"}, ts.CommandsWithPrefix("ex"))
	assert.Equal(t, []string{"echo"}, ts.CommandsWithPrefix("ec"))
	assert.Nil(t, ts.CommandsWithPrefix("zz"))
}
