package collector

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/hypixel"
)

func TestCompressRoundTrip(t *testing.T) {
	in := []byte(`{"some": "payload"}`)
	compressed, err := compress(in)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if compressed[0] != 0x1f || compressed[1] != 0x8b {
		t.Error("output should carry the gzip magic bytes")
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Errorf("round trip mismatch: %q", out)
	}
}

func TestArchiveBlob(t *testing.T) {
	dir := t.TempDir()
	c := New(nil, nil, dir, time.UTC)

	snapshotAt := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	guildData := &hypixel.Guild{Raw: []byte(`{"name": "Test Guild"}`)}
	captures := []memberCapture{
		{player: &hypixel.Player{UUID: "u1", Raw: []byte(`{"displayname": "Steve"}`)}},
	}

	hash, err := c.archiveBlob(snapshotAt, guildData, captures)
	if err != nil {
		t.Fatalf("archiveBlob: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read blob dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d blob files, want 1", len(entries))
	}
	name := entries[0].Name()
	wantPrefix := "1741478400000_"
	if name[:len(wantPrefix)] != wantPrefix {
		t.Errorf("blob name %q should start with the snapshot unix millis", name)
	}
	if name != wantPrefix+hash {
		t.Errorf("blob name %q should end with the payload hash %q", name, hash)
	}

	// The stored hash covers the uncompressed payload.
	compressed, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	payload, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	sum := sha256.Sum256(payload)
	if hex.EncodeToString(sum[:]) != hash {
		t.Error("stored hash does not match the archived payload")
	}

	var decoded struct {
		CreatedAt  int64             `json:"createdAt"`
		GuildData  json.RawMessage   `json:"guildData"`
		PlayerData []json.RawMessage `json:"playerData"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.CreatedAt != snapshotAt.UnixMilli() || len(decoded.PlayerData) != 1 {
		t.Errorf("payload = %+v", decoded)
	}
}
