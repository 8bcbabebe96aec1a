// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panelview

import (
	"mime"
	"net/http"
	"net/textproto"
)

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

func (v *View) frameChangedLocked() {
	for f, b := range v.encoded {
		if b != nil {
			//lint:ignore SA6002 b is []byte and thus pointer-like
			framePool.Put(b)
		}
		delete(v.encoded, f)
	}
	for c := range v.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

func (v *View) terminateClientsLocked() {
	for c := range v.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
}

// snapshot returns a copy of the current frame encoded as f. Encodings are
// cached until the next Publish.
func (v *View) snapshot(f Format) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, ok := v.encoded[f]
	if !ok {
		var err error
		if b, err = encode(v.frame, f, v.quality); err != nil {
			return nil, err
		}
		v.encoded[f] = b
	}
	return append(framePool.Get().([]byte)[:0], b...), nil
}

// ServeHTTP handles GET requests and replies with a stream of images of the
// panel. Clients can ask for a format with "?format=png" or "?format=jpeg".
func (v *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	format, err := parseFormat(r.URL.Query().Get("format"), v.format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pw := newPartWriter(w)
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{"boundary": pw.boundary}))

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
	v.mu.Lock()
	v.clients[c] = struct{}{}
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		delete(v.clients, c)
		v.mu.Unlock()
	}()

	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", "image/"+string(format))
	header.Set("Content-Transfer-Encoding", "binary")
	for {
		b, err := v.snapshot(format)
		if err != nil {
			// The headers are already sent, the stream just ends.
			return
		}
		err = pw.writeFrame(header, b)
		//lint:ignore SA6002 b is []byte and thus pointer-like
		framePool.Put(b)
		if err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
