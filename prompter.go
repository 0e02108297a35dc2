/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Teleprompter transport
//
// One controller page drives any number of prompter displays over
// websockets. Every browser connects to $prefix/ws and exchanges
// {"event": ..., "data": ...} envelopes:
//
// - Displays send "join" once connected and receive the current script
// - The controller sends "control_event" payloads, which are relayed to
//   every joined display exactly as received
// - Every connection receives "status" updates (prompter count, script
//   length, scrolling state)
// - A connection that stops reading is dropped rather than allowed to
//   stall the others
// - $prefix/qr renders the display URL as a QR code, backed by go-qrcode

package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/teleprompter/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	maxMessageSize = 1 << 20
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection, controller or prompter alike.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	id   session.ConnID
	once sync.Once
}

func (c *Client) Send(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
	})
}

func serveWS(cfg *Config, router *session.Router) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Websocket upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan []byte, cfg.sendBuffer),
			id:   session.ConnID(uuid.NewString()),
		}

		router.Connect(client.id, client)
		logf(cfg, "SERVE: Opened connection %s for %s", client.id, realIP(r))

		go client.writePump(cfg)
		client.readPump(cfg, router)
	}
}

func (c *Client) readPump(cfg *Config, router *session.Router) {
	defer func() {
		router.Disconnect(c.id)
		_ = c.conn.Close()
		logf(cfg, "SERVE: Closed connection %s", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		env, err := session.DecodeEnvelope(raw)
		if err != nil {
			continue
		}

		switch env.Event {
		case session.EventJoin:
			router.Join(c.id)
		case session.EventControl:
			router.ControlEvent(c.id, env.Data)
		default:
			// ignore unknown events
		}
	}
}

func (c *Client) writePump(cfg *Config) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func serveState(cfg *Config, router *session.Router, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(router.Snapshot()); err != nil {
			errs <- err
		}
	}
}

// qrHandler renders the prompter page URL as a PNG so display devices can
// join by scanning it from the control page.
func qrHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr") + "/prompter"

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

// registerPrompter sets up routes so that:
//   - $prefix/upload → script upload from the control page
//   - $prefix/state  → JSON snapshot of the session
//   - $prefix/ws     → websocket for controller and prompters
//   - $prefix/qr     → PNG QR code for the prompter page
func registerPrompter(cfg *Config, mux *httprouter.Router, router *session.Router, errs chan<- error) {
	mux.POST(cfg.prefix+"/upload", serveUpload(cfg, router))

	mux.GET(cfg.prefix+"/state", serveState(cfg, router, errs))

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, router))

	mux.GET(cfg.prefix+"/qr", qrHandler(cfg, errs))
}
