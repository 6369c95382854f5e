package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"github.com/lazyvibe/vidjob/internal/model"
)

type filePart struct {
	field string
	file  model.FileEntry
}

type formField struct {
	name  string
	value string
}

// multipartBody streams fields and files through a pipe so large clips
// are never held in memory.
func multipartBody(fields []formField, files []filePart) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeParts(mw, fields, files)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()
	return pr, mw.FormDataContentType()
}

func writeParts(mw *multipart.Writer, fields []formField, files []filePart) error {
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	for _, p := range files {
		if err := copyFile(mw, p); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(mw *multipart.Writer, p filePart) error {
	src, err := os.Open(p.file.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.file.Name, err)
	}
	defer src.Close()

	dst, err := mw.CreateFormFile(p.field, p.file.Name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", p.field, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("upload %s: %w", p.file.Name, err)
	}
	return nil
}
