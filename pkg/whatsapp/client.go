// Package whatsapp wraps a whatsmeow session behind the small surface the
// notification adapter needs: a readiness check and a plain-text send.
package whatsapp

import (
	"context"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
)

// Client holds one authenticated WhatsApp session
type Client struct {
	wa *whatsmeow.Client
}

// NewClient opens the session store at dbPath and connects. On first run
// the session is unpaired: the pairing QR code is written to the log and
// sends report not-ready until pairing completes on the phone.
func NewClient(ctx context.Context, dbPath string) (*Client, error) {
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", dbPath), waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("failed to open WhatsApp session store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load WhatsApp device: %w", err)
	}

	wa := whatsmeow.NewClient(device, waLog.Noop)

	if wa.Store.ID == nil {
		// No session yet; connect and surface the QR code for pairing
		qrChan, _ := wa.GetQRChannel(ctx)
		if err := wa.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect WhatsApp client: %w", err)
		}
		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					log.Printf("WhatsApp pairing code (scan with the app): %s", evt.Code)
				} else {
					log.Printf("WhatsApp pairing: %s", evt.Event)
				}
			}
		}()
	} else {
		if err := wa.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect WhatsApp client: %w", err)
		}
	}

	return &Client{wa: wa}, nil
}

// Ready reports whether the session is paired and connected
func (c *Client) Ready() bool {
	return c.wa.IsConnected() && c.wa.IsLoggedIn()
}

// SendText sends a plain-text message to a phone number and returns the
// provider message ID
func (c *Client) SendText(ctx context.Context, to, text string) (string, error) {
	jid := types.NewJID(digits(to), types.DefaultUserServer)
	resp, err := c.wa.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(text),
	})
	if err != nil {
		return "", err
	}
	return string(resp.ID), nil
}

// Close disconnects the session
func (c *Client) Close() {
	c.wa.Disconnect()
}

// digits strips everything but digits from a phone number; WhatsApp JIDs
// carry the bare international number
func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
