package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"

	"tableflip.dev/harmonizer/pkg/session"
)

// exportEnvelope is the object form of a schedule export.
type exportEnvelope struct {
	Seances []session.Session `json:"Seances"`
}

// ReadFile decodes sessions from a YAML or JSON file. Both a bare list and
// an object with a "Seances" list are accepted.
func ReadFile(path string) ([]session.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a schedule export. Records without an id get a fresh one
// and every record is validated.
func Decode(data []byte) ([]session.Session, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("store: empty import")
	}

	var sessions []session.Session
	if err := yaml.Unmarshal(trimmed, &sessions); err != nil {
		var env exportEnvelope
		if envErr := yaml.Unmarshal(trimmed, &env); envErr != nil {
			return nil, fmt.Errorf("store: decode import: %w", err)
		}
		sessions = env.Seances
	}

	seen := make(map[string]struct{}, len(sessions))
	for i := range sessions {
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.NewString()
		}
		if _, dup := seen[sessions[i].ID]; dup {
			return nil, fmt.Errorf("store: import record %d: duplicate id %q", i+1, sessions[i].ID)
		}
		seen[sessions[i].ID] = struct{}{}
		if err := session.Validate(sessions[i]); err != nil {
			return nil, fmt.Errorf("store: import record %d: %w", i+1, err)
		}
	}
	return sessions, nil
}

// Import writes sessions into p, which must accept whole sessions.
func Import(ctx context.Context, p Persistence, sessions []session.Session) (int, error) {
	w, ok := p.(Writer)
	if !ok {
		return 0, errors.New("store: backend does not accept imports")
	}
	for i, s := range sessions {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := w.Store(s); err != nil {
			return i, fmt.Errorf("store: import %s: %w", s.ID, err)
		}
	}
	return len(sessions), nil
}
