package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/hupe1980/toolagent/tool"
)

var (
	filePathParam = tool.ParamDocumentation{Name: "file_path", Desc: "Path of the file, e.g. ./file.txt", Type: "string"}
	contentParam  = tool.ParamDocumentation{Name: "content", Desc: "Text content", Type: "string"}
	folderParam   = tool.ParamDocumentation{Name: "folder", Desc: "Path of the folder, e.g. ./folder", Type: "string"}
	srcParam      = tool.ParamDocumentation{Name: "src", Desc: "Path of the file or folder to move", Type: "string"}

	destinationParam = tool.ParamDocumentation{Name: "destination", Desc: "Target path, e.g. /usr/bin/file.txt", Type: "string"}
	encodingParam    = tool.ParamDocumentation{Name: "encoding", Desc: "Text encoding, only utf-8 is supported", Type: "string", Optional: true}
)

// NewFileRead returns the "File Read" tool.
func NewFileRead(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name:   "File Read",
		Desc:   "Read a file",
		Params: []tool.ParamDocumentation{filePathParam, encodingParam},
	}

	return tool.New(docs, tool.Signature{"file_path", "encoding"}, func(_ context.Context, args tool.Args) (any, error) {
		path, _ := args.String("file_path")

		if err := checkEncoding(docs.Name, args); err != nil {
			return nil, err
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fsError(docs.Name, err)
		}

		if !utf8.Valid(b) {
			return nil, tool.NewToolError(docs.Name, fmt.Sprintf("%s is not valid utf-8", path), "ENCODING_ERROR")
		}

		return tool.Success(string(b)), nil
	}, optFns...)
}

// NewFileWrite returns the "File Write" tool. Existing files are overwritten.
func NewFileWrite(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name:   "File Write",
		Desc:   "Write to a file, overwrites if it exists",
		Params: []tool.ParamDocumentation{filePathParam, contentParam, encodingParam},
	}

	return tool.New(docs, tool.Signature{"file_path", "content", "encoding"}, func(_ context.Context, args tool.Args) (any, error) {
		path, _ := args.String("file_path")
		content, _ := args.String("content")

		if err := checkEncoding(docs.Name, args); err != nil {
			return nil, err
		}

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fsError(docs.Name, err)
		}

		return tool.Success(nil), nil
	}, optFns...)
}

// NewFileAppend returns the "File Append" tool. Missing files are created.
func NewFileAppend(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name:   "File Append",
		Desc:   "Append to a file, create if it doesn't exist",
		Params: []tool.ParamDocumentation{filePathParam, contentParam, encodingParam},
	}

	return tool.New(docs, tool.Signature{"file_path", "content", "encoding"}, func(_ context.Context, args tool.Args) (any, error) {
		path, _ := args.String("file_path")
		content, _ := args.String("content")

		if err := checkEncoding(docs.Name, args); err != nil {
			return nil, err
		}

		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fsError(docs.Name, err)
		}
		defer f.Close()

		if _, err := f.WriteString(content); err != nil {
			return nil, fsError(docs.Name, err)
		}

		return tool.Success(nil), nil
	}, optFns...)
}

// NewFileDelete returns the "File Delete" tool. With verify set, the tool asks
// its confirmer again right before removing the file, independent of the
// confirmation an agent requests before every step.
func NewFileDelete(verify bool, optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{Name: "File Delete", Desc: "Delete a file", Params: []tool.ParamDocumentation{filePathParam}}

	var self *tool.FunctionTool

	t, err := tool.New(docs, tool.Signature{"file_path"}, func(ctx context.Context, args tool.Args) (any, error) {
		path, _ := args.String("file_path")

		if verify {
			if err := self.HumanConfirmation(ctx, map[string]any{"file_path": path}); err != nil {
				return nil, err
			}
		}

		if err := os.Remove(path); err != nil {
			return nil, fsError(docs.Name, err)
		}

		return tool.Success(nil), nil
	}, optFns...)
	if err != nil {
		return nil, err
	}

	self = t

	return t, nil
}

// NewFolderCreate returns the "Folder Create" tool. Existing folders are ignored.
func NewFolderCreate(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{Name: "Folder Create", Desc: "Create a folder, ignores if it exists", Params: []tool.ParamDocumentation{folderParam}}

	return tool.New(docs, tool.Signature{"folder"}, func(_ context.Context, args tool.Args) (any, error) {
		folder, _ := args.String("folder")

		if err := os.MkdirAll(folder, 0o755); err != nil {
			return nil, fsError(docs.Name, err)
		}

		return tool.Success(nil), nil
	}, optFns...)
}

// NewFolderList returns the "Folder List" tool. Entries are sorted by name.
func NewFolderList(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{Name: "Folder List", Desc: "List the contents of a folder", Params: []tool.ParamDocumentation{folderParam}}

	return tool.New(docs, tool.Signature{"folder"}, func(_ context.Context, args tool.Args) (any, error) {
		folder, _ := args.String("folder")

		entries, err := os.ReadDir(folder)
		if err != nil {
			return nil, fsError(docs.Name, err)
		}

		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		sort.Strings(names)

		return tool.Success(names), nil
	}, optFns...)
}

// NewFileFolderExists returns the "File Folder Exists" tool.
func NewFileFolderExists(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name:   "File Folder Exists",
		Desc:   "Check if a file or folder exists",
		Params: []tool.ParamDocumentation{{Name: "path", Desc: "Path of the file or folder", Type: "string"}},
	}

	return tool.New(docs, tool.Signature{"path"}, func(_ context.Context, args tool.Args) (any, error) {
		path, _ := args.String("path")

		_, err := os.Stat(path)
		switch {
		case err == nil:
			return tool.Success(true), nil
		case errors.Is(err, fs.ErrNotExist):
			return tool.Success(false), nil
		default:
			return nil, fsError(docs.Name, err)
		}
	}, optFns...)
}

// NewFolderSearch returns the "Folder Search" tool. It walks folder and
// returns the path of the first file named file_name, or nil.
func NewFolderSearch(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name: "Folder Search",
		Desc: "Search for a file in a folder and its subfolders",
		Params: []tool.ParamDocumentation{
			folderParam,
			{Name: "file_name", Desc: "Name of the file to find", Type: "string"},
		},
	}

	return tool.New(docs, tool.Signature{"folder", "file_name"}, func(ctx context.Context, args tool.Args) (any, error) {
		folder, _ := args.String("folder")
		name, _ := args.String("file_name")

		var found string

		err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.IsDir() && d.Name() == name {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fsError(docs.Name, err)
		}

		if found == "" {
			return tool.Success(nil), nil
		}

		return tool.Success(found), nil
	}, optFns...)
}

// NewFileFolderMove returns the "File Folder Move" tool. It renames src to
// destination.
func NewFileFolderMove(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name:   "File Folder Move",
		Desc:   "Move a file or a folder",
		Params: []tool.ParamDocumentation{srcParam, destinationParam},
	}

	return tool.New(docs, tool.Signature{"src", "destination"}, func(_ context.Context, args tool.Args) (any, error) {
		src, _ := args.String("src")
		dst, _ := args.String("destination")

		if err := os.Rename(src, dst); err != nil {
			return nil, fsError(docs.Name, err)
		}

		return tool.Success(nil), nil
	}, optFns...)
}

// NewFileCopy returns the "File Copy" tool. An existing destination file is
// overwritten; a destination folder receives a file of the same name. The
// permission bits and modification time are preserved.
func NewFileCopy(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name:   "File Copy",
		Desc:   "Copy a file, overwrites if destination exists",
		Params: []tool.ParamDocumentation{filePathParam, destinationParam},
	}

	return tool.New(docs, tool.Signature{"file_path", "destination"}, func(_ context.Context, args tool.Args) (any, error) {
		src, _ := args.String("file_path")
		dst, _ := args.String("destination")

		if info, err := os.Stat(dst); err == nil && info.IsDir() {
			dst = filepath.Join(dst, filepath.Base(src))
		}

		if err := copyFile(src, dst); err != nil {
			return nil, fsError(docs.Name, err)
		}

		return tool.Success(nil), nil
	}, optFns...)
}

// NewFolderCopy returns the "Folder Copy" tool. It copies folder recursively
// into destination, which must not exist yet.
func NewFolderCopy(optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name:   "Folder Copy",
		Desc:   "Copy a folder",
		Params: []tool.ParamDocumentation{folderParam, destinationParam},
	}

	return tool.New(docs, tool.Signature{"folder", "destination"}, func(ctx context.Context, args tool.Args) (any, error) {
		folder, _ := args.String("folder")
		dst, _ := args.String("destination")

		if filepath.Ext(dst) != "" {
			return nil, tool.NewToolError(docs.Name, "destination must be a folder not a file", "FS_ERROR")
		}

		if _, err := os.Stat(dst); err == nil {
			return nil, fsError(docs.Name, &fs.PathError{Op: "copy", Path: dst, Err: fs.ErrExist})
		}

		err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			rel, err := filepath.Rel(folder, path)
			if err != nil {
				return err
			}
			target := filepath.Join(dst, rel)

			if d.IsDir() {
				info, err := d.Info()
				if err != nil {
					return err
				}
				return os.MkdirAll(target, info.Mode().Perm())
			}

			return copyFile(path, target)
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fsError(docs.Name, err)
		}

		return tool.Success(nil), nil
	}, optFns...)
}

// NewFolderDelete returns the "Folder Delete" tool. It removes folder and
// everything below it; a missing folder is ignored. With verify set, the
// confirmer sees the folder contents before anything is removed.
func NewFolderDelete(verify bool, optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name:   "Folder Delete",
		Desc:   "Delete a folder and its contents, ignores if it doesn't exist",
		Params: []tool.ParamDocumentation{folderParam},
	}

	var self *tool.FunctionTool

	t, err := tool.New(docs, tool.Signature{"folder"}, func(ctx context.Context, args tool.Args) (any, error) {
		folder, _ := args.String("folder")

		entries, err := os.ReadDir(folder)
		if errors.Is(err, fs.ErrNotExist) {
			return tool.Success(nil), nil
		}
		if err != nil {
			return nil, fsError(docs.Name, err)
		}

		if verify {
			contents := make([]string, len(entries))
			for i, e := range entries {
				contents[i] = e.Name()
			}

			if err := self.HumanConfirmation(ctx, map[string]any{"folder": folder, "contents": contents}); err != nil {
				return nil, err
			}
		}

		if err := os.RemoveAll(folder); err != nil {
			return nil, fsError(docs.Name, err)
		}

		return tool.Success(nil), nil
	}, optFns...)
	if err != nil {
		return nil, err
	}

	self = t

	return t, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: src, Err: errors.New("is a directory")}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// FileTools returns every file system tool. FileDelete and FolderDelete ask
// for an extra confirmation.
func FileTools(optFns ...func(o *tool.Options)) ([]tool.Tool, error) {
	ctors := []func(...func(o *tool.Options)) (*tool.FunctionTool, error){
		NewFileRead,
		NewFileWrite,
		NewFileAppend,
		func(fns ...func(o *tool.Options)) (*tool.FunctionTool, error) { return NewFileDelete(true, fns...) },
		NewFileFolderMove,
		NewFileCopy,
		NewFolderCreate,
		func(fns ...func(o *tool.Options)) (*tool.FunctionTool, error) { return NewFolderDelete(true, fns...) },
		NewFolderCopy,
		NewFolderList,
		NewFileFolderExists,
		NewFolderSearch,
	}

	out := make([]tool.Tool, 0, len(ctors))
	for _, ctor := range ctors {
		t, err := ctor(optFns...)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, nil
}
