/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Seednode/teleprompter/paragraphs"
	"github.com/Seednode/teleprompter/session"
	"github.com/julienschmidt/httprouter"
)

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

// serveUpload accepts a multipart form with a "file" field and an optional
// "autoscale" checkbox, replaces the session script, and sends the control
// page back to itself.
func serveUpload(cfg *Config, router *session.Router) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()
		home := cfg.prefix + "/"

		if r.ContentLength > cfg.maxUploadSize {
			serveError(cfg, w, http.StatusRequestEntityTooLarge, "Upload Failed",
				fmt.Sprintf("Scripts may be at most %s.", humanReadableSize(cfg.maxUploadSize)))

			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.maxUploadSize)

		if err := r.ParseMultipartForm(cfg.maxUploadSize); err != nil {
			logf(cfg, "UPLOAD: Rejected form from %s: %v", realIP(r), err)

			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				serveError(cfg, w, http.StatusRequestEntityTooLarge, "Upload Failed",
					fmt.Sprintf("Scripts may be at most %s.", humanReadableSize(cfg.maxUploadSize)))

				return
			}

			serveError(cfg, w, http.StatusBadRequest, "Upload Failed", "The upload could not be read. Please try again.")

			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Redirect(w, r, home, http.StatusSeeOther)

			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			serveError(cfg, w, http.StatusBadRequest, "Upload Failed", "The upload could not be read. Please try again.")

			return
		}

		script, err := paragraphs.Parse(data, header.Filename)
		if err != nil {
			logf(cfg, "UPLOAD: Could not parse %q from %s: %v", header.Filename, realIP(r), err)

			serveError(cfg, w, http.StatusUnprocessableEntity, "Upload Failed",
				fmt.Sprintf("%s could not be read as a document.", header.Filename))

			return
		}

		autoscale := r.FormValue("autoscale") != ""

		router.Upload(script, autoscale)

		logf(cfg, "UPLOAD: %q (%s) from %s in %s",
			header.Filename,
			humanReadableSize(int64(len(data))),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)

		http.Redirect(w, r, home, http.StatusSeeOther)
	}
}
