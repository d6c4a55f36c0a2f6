package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"comicshare/internal/service"
	"comicshare/internal/wizard"
)

const (
	// multipartMemory is how much of a form is buffered before parts spill
	// to temporary files.
	multipartMemory = 32 << 20
	// formOverhead allows for part headers and text fields on top of files.
	formOverhead = 1 << 20
)

// parseForm limits the body to maxBody bytes and parses it as multipart.
func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request, maxBody int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			WriteError(w, "request exceeds the "+humanize.IBytes(uint64(maxBody))+" limit", http.StatusRequestEntityTooLarge)
			return false
		}
		WriteError(w, "expected a multipart form", http.StatusBadRequest)
		return false
	}
	return true
}

// singleFile returns the one file uploaded under field.
func (h *Handlers) singleFile(w http.ResponseWriter, r *http.Request, field string) (multipart.File, bool) {
	if !h.parseForm(w, r, h.Cfg.Upload.MaxUploadSize+formOverhead) {
		return nil, false
	}
	file, _, err := r.FormFile(field)
	if err != nil {
		r.MultipartForm.RemoveAll()
		WriteError(w, "file field "+field+" is required", http.StatusBadRequest)
		return nil, false
	}
	return formFile{File: file, form: r.MultipartForm}, true
}

// formFile removes the form's temporary files when closed.
type formFile struct {
	multipart.File
	form *multipart.Form
}

func (f formFile) Close() error {
	err := f.File.Close()
	f.form.RemoveAll()
	return err
}

func wizardFile(fh *multipart.FileHeader) wizard.File {
	return wizard.File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

// draftFromForm reads a wizard draft: "cover" file, "pages" files in page
// order, and the title, artist, description and tags fields. Tags may repeat
// or be comma separated.
func draftFromForm(form *multipart.Form) service.Draft {
	var draft service.Draft
	if covers := form.File["cover"]; len(covers) > 0 {
		cover := wizardFile(covers[0])
		draft.Cover = &cover
	}
	for _, fh := range form.File["pages"] {
		draft.Pages = append(draft.Pages, wizardFile(fh))
	}

	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	var tags []string
	for _, v := range form.Value["tags"] {
		tags = append(tags, strings.Split(v, ",")...)
	}

	draft.Details = wizard.Details{
		Title:       value("title"),
		Artist:      value("artist"),
		Description: value("description"),
		Tags:        tags,
	}
	return draft
}
