/************************************************************************************
 *
 * corvid, a Go client library for the Discord API
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 the corvid authors
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

package corvid

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RequestFile is a single file attachment to upload alongside a multipart
// REST request, e.g. sending a message or editing a webhook avatar.
type RequestFile struct {
	// Name is the filename Discord will show for the attachment.
	Name string
	// ContentType is the MIME type sent in the part's Content-Type header.
	// Left empty, the part is sent as application/octet-stream.
	ContentType string
	// Reader supplies the file's bytes. It is read exactly once.
	Reader io.Reader
}

// NewRequestFile builds a RequestFile from a filesystem path, detecting its
// content type from the file's contents.
func NewRequestFile(path string) (*RequestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return &RequestFile{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Reader:      bytes.NewReader(data),
	}, nil
}

// encodeMultipart builds a multipart/form-data body carrying a JSON
// "payload_json" part (the request's options, e.g. MessageCreateOptions)
// alongside one "files[n]" part per attachment. Returns the encoded body and
// the Content-Type header value (including the boundary) to send with it.
func encodeMultipart(payloadJSON []byte, files []*RequestFile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	payloadHeader := make(map[string][]string)
	payloadHeader["Content-Disposition"] = []string{`form-data; name="payload_json"`}
	payloadHeader["Content-Type"] = []string{"application/json"}
	part, err := w.CreatePart(payloadHeader)
	if err != nil {
		return nil, "", fmt.Errorf("create payload_json part: %w", err)
	}
	if _, err := part.Write(payloadJSON); err != nil {
		return nil, "", fmt.Errorf("write payload_json part: %w", err)
	}

	for i, f := range files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fieldName := "files[" + strconv.Itoa(i) + "]"

		header := make(map[string][]string)
		header["Content-Disposition"] = []string{
			`form-data; name="` + fieldName + `"; filename="` + f.Name + `"`,
		}
		header["Content-Type"] = []string{contentType}

		filePart, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create %s part: %w", fieldName, err)
		}
		if _, err := io.Copy(filePart, f.Reader); err != nil {
			return nil, "", fmt.Errorf("write %s part: %w", fieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// DownloadFile downloads a file from the given URL and saves it in the specified directory.
// The filename is derived from baseName and the Content-Type returned by the server.
// Returns the full path of the saved file.
func DownloadFile(url, baseName, dir string) (string, error) {
	if url == "" {
		return "", errors.New("URL is empty")
	}

	resp, err := http.Head(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch headers: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch headers: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		exts = []string{filepath.Ext(baseName)}
	}
	ext := exts[0]

	name := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	finalName := name + ext
	fullPath := filepath.Join(dir, finalName)

	respGet, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch file: %w", err)
	}
	defer respGet.Body.Close()

	if respGet.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch file: status %d", respGet.StatusCode)
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, respGet.Body)
	if err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fullPath, nil
}

// Base64Image represents a base64-encoded image data URI string.
type Base64Image = string

// NewImageFile reads an image file and returns its base64 data URI string.
//
// Example output: "data:image/png;base64,<base64-encoded-bytes>"
func NewImageFile(path string) (Base64Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("not an image file: detected MIME type %s", mimeType)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("invalid image data: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded), nil
}
