package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/toolagent/tool"
)

func autoApprove(o *tool.Options) { o.Confirmer = tool.AutoApprove }

func execute(t *testing.T, ft *tool.FunctionTool, args tool.Args) tool.Return {
	t.Helper()

	ret, err := ft.Execute(context.Background(), args)
	require.NoError(t, err)

	return ret
}

func TestFileTools_WriteAppendRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")

	write, err := NewFileWrite()
	require.NoError(t, err)
	appendTool, err := NewFileAppend()
	require.NoError(t, err)
	read, err := NewFileRead()
	require.NoError(t, err)

	assert.Equal(t, tool.Success(nil), execute(t, write, tool.Args{"file_path": path, "content": "hello"}))
	assert.Equal(t, tool.Success(nil), execute(t, appendTool, tool.Args{"file_path": path, "content": " world"}))
	assert.Equal(t, tool.Success("hello world"), execute(t, read, tool.Args{"file_path": path}))

	assert.Equal(t, tool.Success(nil), execute(t, write, tool.Args{"file_path": path, "content": "replaced"}))
	assert.Equal(t, tool.Success("replaced"), execute(t, read, tool.Args{"file_path": path}))
}

func TestFileTools_Encoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")

	write, err := NewFileWrite()
	require.NoError(t, err)
	appendTool, err := NewFileAppend()
	require.NoError(t, err)
	read, err := NewFileRead()
	require.NoError(t, err)

	assert.Equal(t, tool.Success(nil), execute(t, write, tool.Args{"file_path": path, "content": "grüße", "encoding": "utf-8"}))
	assert.Equal(t, tool.Success(nil), execute(t, appendTool, tool.Args{"file_path": path, "content": "!", "encoding": "UTF8"}))
	assert.Equal(t, tool.Success("grüße!"), execute(t, read, tool.Args{"file_path": path, "encoding": "utf-8"}))

	rejected := []struct {
		ft   *tool.FunctionTool
		args tool.Args
	}{
		{write, tool.Args{"file_path": path, "content": "x", "encoding": "latin-1"}},
		{appendTool, tool.Args{"file_path": path, "content": "x", "encoding": "utf-16"}},
		{read, tool.Args{"file_path": path, "encoding": "ascii"}},
	}

	for _, tt := range rejected {
		t.Run(tt.ft.Name(), func(t *testing.T) {
			ret := execute(t, tt.ft, tt.args)
			assert.Equal(t, tool.ExitFailure, ret.ExitCode)
			assert.Contains(t, ret.Output, "unsupported encoding")
		})
	}

	assert.Equal(t, tool.Success("grüße!"), execute(t, read, tool.Args{"file_path": path}), "rejected calls leave the file untouched")

	binary := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0x00}, 0o644))

	ret := execute(t, read, tool.Args{"file_path": binary})
	assert.Equal(t, tool.ExitFailure, ret.ExitCode)
	assert.Contains(t, ret.Output, "not valid utf-8")
}

func TestFileFolderMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	move, err := NewFileFolderMove()
	require.NoError(t, err)

	assert.Equal(t, tool.Success(nil), execute(t, move, tool.Args{"src": src, "destination": dst}))
	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)

	ret := execute(t, move, tool.Args{"src": src, "destination": dst})
	assert.Equal(t, tool.ExitFailure, ret.ExitCode)
}

func TestFileCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.sh")
	require.NoError(t, os.WriteFile(src, []byte("echo hi"), 0o750))

	cp, err := NewFileCopy()
	require.NoError(t, err)

	t.Run("to file overwrites", func(t *testing.T) {
		dst := filepath.Join(dir, "b.sh")
		require.NoError(t, os.WriteFile(dst, []byte("old content"), 0o644))

		assert.Equal(t, tool.Success(nil), execute(t, cp, tool.Args{"file_path": src, "destination": dst}))

		b, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "echo hi", string(b))

		srcInfo, err := os.Stat(src)
		require.NoError(t, err)
		dstInfo, err := os.Stat(dst)
		require.NoError(t, err)
		assert.Equal(t, srcInfo.Mode().Perm(), dstInfo.Mode().Perm())
		assert.True(t, srcInfo.ModTime().Equal(dstInfo.ModTime()))
	})

	t.Run("into folder", func(t *testing.T) {
		folder := filepath.Join(dir, "out")
		require.NoError(t, os.Mkdir(folder, 0o755))

		assert.Equal(t, tool.Success(nil), execute(t, cp, tool.Args{"file_path": src, "destination": folder}))
		assert.FileExists(t, filepath.Join(folder, "a.sh"))
	})

	t.Run("missing source", func(t *testing.T) {
		ret := execute(t, cp, tool.Args{"file_path": filepath.Join(dir, "nope"), "destination": filepath.Join(dir, "c")})
		assert.Equal(t, tool.ExitFailure, ret.ExitCode)
	})
}

func TestFolderCopy(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("top"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "deep.txt"), []byte("deep"), 0o644))

	cp, err := NewFolderCopy()
	require.NoError(t, err)

	dst := filepath.Join(root, "dst")
	assert.Equal(t, tool.Success(nil), execute(t, cp, tool.Args{"folder": src, "destination": dst}))

	b, err := os.ReadFile(filepath.Join(dst, "nested", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(b))
	assert.FileExists(t, filepath.Join(dst, "top.txt"))

	t.Run("existing destination", func(t *testing.T) {
		ret := execute(t, cp, tool.Args{"folder": src, "destination": dst})
		assert.Equal(t, tool.ExitFailure, ret.ExitCode)
	})

	t.Run("file destination", func(t *testing.T) {
		ret := execute(t, cp, tool.Args{"folder": src, "destination": filepath.Join(root, "copy.txt")})
		assert.Equal(t, tool.ExitFailure, ret.ExitCode)
		assert.Contains(t, ret.Output, "must be a folder")
		assert.NoDirExists(t, filepath.Join(root, "copy.txt"))
	})
}

func TestFolderDelete(t *testing.T) {
	newFolder := func(t *testing.T) string {
		folder := filepath.Join(t.TempDir(), "data")
		require.NoError(t, os.MkdirAll(filepath.Join(folder, "sub"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(folder, "a.txt"), []byte("x"), 0o644))
		return folder
	}

	t.Run("approved with contents", func(t *testing.T) {
		folder := newFolder(t)

		var confirmed []map[string]any
		del, err := NewFolderDelete(true, func(o *tool.Options) {
			o.Confirmer = tool.ConfirmerFunc(func(_ context.Context, c tool.Confirmation) (bool, error) {
				confirmed = append(confirmed, c.Details)
				return true, nil
			})
		})
		require.NoError(t, err)

		assert.Equal(t, tool.Success(nil), execute(t, del, tool.Args{"folder": folder}))
		assert.NoDirExists(t, folder)
		assert.Equal(t, []map[string]any{{"folder": folder, "contents": []string{"a.txt", "sub"}}}, confirmed)
	})

	t.Run("denied", func(t *testing.T) {
		folder := newFolder(t)

		del, err := NewFolderDelete(true, func(o *tool.Options) { o.Confirmer = tool.AutoDeny })
		require.NoError(t, err)

		_, err = del.Execute(context.Background(), tool.Args{"folder": folder})
		assert.ErrorIs(t, err, tool.ErrUserDenied)
		assert.DirExists(t, folder)
	})

	t.Run("missing folder is ignored", func(t *testing.T) {
		del, err := NewFolderDelete(true, func(o *tool.Options) { o.Confirmer = tool.AutoDeny })
		require.NoError(t, err)

		assert.Equal(t, tool.Success(nil), execute(t, del, tool.Args{"folder": filepath.Join(t.TempDir(), "nope")}))
	})

	t.Run("without verification", func(t *testing.T) {
		folder := newFolder(t)

		del, err := NewFolderDelete(false, func(o *tool.Options) { o.Confirmer = tool.AutoDeny })
		require.NoError(t, err)

		assert.Equal(t, tool.Success(nil), execute(t, del, tool.Args{"folder": folder}))
		assert.NoDirExists(t, folder)
	})
}

func TestFileRead_MissingFile(t *testing.T) {
	read, err := NewFileRead()
	require.NoError(t, err)

	ret := execute(t, read, tool.Args{"file_path": filepath.Join(t.TempDir(), "missing.txt")})
	assert.Equal(t, tool.ExitFailure, ret.ExitCode)
	assert.Contains(t, ret.Output, "missing.txt")
}

func TestFileDelete(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		var confirmed []map[string]any
		del, err := NewFileDelete(true, func(o *tool.Options) {
			o.Confirmer = tool.ConfirmerFunc(func(_ context.Context, c tool.Confirmation) (bool, error) {
				confirmed = append(confirmed, c.Details)
				return true, nil
			})
		})
		require.NoError(t, err)

		assert.Equal(t, tool.Success(nil), execute(t, del, tool.Args{"file_path": path}))
		assert.NoFileExists(t, path)
		assert.Equal(t, []map[string]any{{"file_path": path}}, confirmed)
	})

	t.Run("denied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		del, err := NewFileDelete(true, func(o *tool.Options) { o.Confirmer = tool.AutoDeny })
		require.NoError(t, err)

		_, err = del.Execute(context.Background(), tool.Args{"file_path": path})
		assert.ErrorIs(t, err, tool.ErrUserDenied)
		assert.FileExists(t, path)
	})

	t.Run("without verification", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		del, err := NewFileDelete(false, func(o *tool.Options) { o.Confirmer = tool.AutoDeny })
		require.NoError(t, err)

		assert.Equal(t, tool.Success(nil), execute(t, del, tool.Args{"file_path": path}))
		assert.NoFileExists(t, path)
	})
}

func TestFolderTools(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")

	create, err := NewFolderCreate()
	require.NoError(t, err)
	list, err := NewFolderList()
	require.NoError(t, err)
	exists, err := NewFileFolderExists()
	require.NoError(t, err)
	search, err := NewFolderSearch()
	require.NoError(t, err)

	assert.Equal(t, tool.Success(nil), execute(t, create, tool.Args{"folder": nested}))
	assert.Equal(t, tool.Success(nil), execute(t, create, tool.Args{"folder": nested}))

	require.NoError(t, os.WriteFile(filepath.Join(nested, "target.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "z.txt"), nil, 0o644))

	assert.Equal(t, tool.Success([]string{"a", "z.txt"}), execute(t, list, tool.Args{"folder": root}))
	assert.Equal(t, tool.Success(true), execute(t, exists, tool.Args{"path": nested}))
	assert.Equal(t, tool.Success(false), execute(t, exists, tool.Args{"path": filepath.Join(root, "nope")}))

	assert.Equal(t,
		tool.Success(filepath.Join(nested, "target.txt")),
		execute(t, search, tool.Args{"folder": root, "file_name": "target.txt"}),
	)
	assert.Equal(t, tool.Success(nil), execute(t, search, tool.Args{"folder": root, "file_name": "other.txt"}))

	ret := execute(t, list, tool.Args{"folder": filepath.Join(root, "nope")})
	assert.Equal(t, tool.ExitFailure, ret.ExitCode)
}

func TestFileTools(t *testing.T) {
	all, err := FileTools(autoApprove)
	require.NoError(t, err)

	names := make([]string, len(all))
	for i, ft := range all {
		names[i] = ft.Docs().Name
	}

	assert.Equal(t, []string{
		"File Read",
		"File Write",
		"File Append",
		"File Delete",
		"File Folder Move",
		"File Copy",
		"Folder Create",
		"Folder Delete",
		"Folder Copy",
		"Folder List",
		"File Folder Exists",
		"Folder Search",
	}, names)
}
