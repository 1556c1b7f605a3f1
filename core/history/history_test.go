package history

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func ExampleHistory_Listing() {
	h := New()
	h.Add("echo a")
	h.Add("pwd")
	h.Add("history 2")

	fmt.Print(h.Listing(2))

	// Output:     2  pwd
	//     3  history 2
}

func newHistory(lines ...string) *History {
	h := New()
	for _, l := range lines {
		h.Add(l)
	}
	return h
}

func TestListing(t *testing.T) {
	h := newHistory("one", "two", "three")

	assert.Equal(t, "    1  one\n    2  two\n    3  three\n", h.Listing(-1))
	assert.Equal(t, "    3  three\n", h.Listing(1))
	assert.Equal(t, "", h.Listing(0))
	assert.Equal(t, h.Listing(-1), h.Listing(10))
	assert.Equal(t, "", New().Listing(-1))
}

func TestReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fs, "/hist", []byte("ls\n\n   \ncd /tmp\necho  spaced \n"), 0600))

	h := newHistory("first")
	assert.Nil(t, h.ReadFile(fs, "/hist"))

	assert.Equal(t, []string{"first", "ls", "cd /tmp", "echo  spaced "}, h.Entries())
	// -r doesn't count as saved.
	assert.Equal(t, h.Entries(), h.Unsaved())

	t.Run("missing", func(t *testing.T) {
		err := h.ReadFile(fs, "/missing")
		assert.NotNil(t, err)
		assert.Len(t, h.Entries(), 4)
	})
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fs, "/hist", []byte("a\nb\n"), 0600))

	h := New()
	assert.Nil(t, h.Load(fs, "/hist"))
	h.Add("c")

	assert.Equal(t, []string{"c"}, h.Unsaved())
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fs, "/hist", []byte("old contents\nmore\nand more\n"), 0600))

	h := newHistory("a", "b")
	assert.Nil(t, h.WriteFile(fs, "/hist"))

	contents, err := afero.ReadFile(fs, "/hist")
	assert.Nil(t, err)
	assert.Equal(t, "a\nb\n", string(contents))
	assert.Empty(t, h.Unsaved())
}

func TestAppendFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := New()

	// Nothing new: no file gets created.
	assert.Nil(t, h.AppendFile(fs, "/hist"))
	exists, err := afero.Exists(fs, "/hist")
	assert.Nil(t, err)
	assert.False(t, exists)

	h.Add("echo 1")
	h.Add("echo 2")
	assert.Nil(t, h.AppendFile(fs, "/hist"))

	h.Add("echo 3")
	assert.Nil(t, h.AppendFile(fs, "/hist"))
	assert.Nil(t, h.AppendFile(fs, "/hist"))

	contents, err := afero.ReadFile(fs, "/hist")
	assert.Nil(t, err)
	assert.Equal(t, "echo 1\necho 2\necho 3\n", string(contents))
}

func TestAppendFile_error(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	h := newHistory("x")

	assert.NotNil(t, h.AppendFile(fs, "/hist"))
	assert.Equal(t, []string{"x"}, h.Unsaved())
}

func TestClear(t *testing.T) {
	h := newHistory("a", "b")
	h.Clear()

	assert.Empty(t, h.Entries())
	assert.Empty(t, h.Unsaved())
	h.Add("c")
	assert.Equal(t, []string{"c"}, h.Unsaved())
}
