package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return out
}

func TestHandler_MasksSecrets(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "swivel", slog.LevelInfo, nil, []string{"otc", "Shared_Secret"}))

	// Act
	logger.Info("verify request",
		"otc", "123456",
		"shared_secret", "s3cr3t",
		"principal_id", "alice",
		"body", `{"otc":"654321","note":"ok"}`,
		slog.Group("req", slog.String("otc", "000000")),
	)

	// Assert
	line := decodeLine(t, buf)
	if line["otc"] != maskedValue || line["shared_secret"] != maskedValue {
		t.Fatalf("secrets not masked: %v", line)
	}
	if line["principal_id"] != "alice" {
		t.Fatalf("principal_id = %v", line["principal_id"])
	}
	if line["body"] != `{"note":"ok","otc":"***"}` {
		t.Fatalf("body = %v", line["body"])
	}
	req, ok := line["req"].(map[string]any)
	if !ok || req["otc"] != maskedValue {
		t.Fatalf("group not masked: %v", line["req"])
	}
	if line["service"] != "swivel" {
		t.Fatalf("service = %v", line["service"])
	}
}

func TestHandler_MasksDefaultsWithoutConfig(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "", slog.LevelInfo, nil, []string{"password"}))

	// Act
	logger.Info("verify request", "otc", "918273", "secret", "s3cr3t", "password", "pw")

	// Assert
	line := decodeLine(t, buf)
	for _, key := range []string{"otc", "secret", "password"} {
		if line[key] != maskedValue {
			t.Fatalf("%s = %v, want masked", key, line[key])
		}
	}
}

func TestHandler_CorrelationID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "", slog.LevelInfo, nil, nil)).With("component", "agent")

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "probe")

	line := decodeLine(t, buf)
	if line["_cID"] != "cid-1" {
		t.Fatalf("_cID = %v", line["_cID"])
	}
	if line["component"] != "agent" {
		t.Fatalf("component = %v", line["component"])
	}
	if _, ok := line["service"]; ok {
		t.Fatalf("service must be omitted when empty")
	}
}

func TestHandler_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "swivel", parseLevel("warn"), nil, nil))

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be dropped at warn level: %s", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Fatalf("warn must be logged")
	}
}

func TestGetCorrelationID_Empty(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("GetCorrelationID = %q", got)
	}
}
