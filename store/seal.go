package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/internal/shared"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

// SealMark is the content of the independent seal-marker file. It is a second
// source of truth: a reader that only trusts the filesystem can detect the
// seal without parsing the manifest. When the store carries a signing secret
// the marker additionally holds an HMAC-signed token over the same claims.
type SealMark struct {
	RunID    string    `json:"run_id"`
	SealedAt time.Time `json:"sealed_at"`
	Reason   string    `json:"reason"`
	Token    string    `json:"token,omitempty"`
}

type sealClaims struct {
	Reason string `json:"reason"`
	jwt.RegisteredClaims
}

// Seal sets sealed_at on the manifest and writes the marker file. Sealing is
// idempotent: a second call leaves the first call's sealed_at untouched and
// returns the existing mark.
func (s *Store) Seal(runID, reason string) (*SealMark, error) {
	if mark, err := s.ReadSealMark(runID); err == nil {
		s.logger.Debug("run already sealed",
			zap.String("run_id", runID),
			zap.Time("sealed_at", mark.SealedAt))
		return mark, nil
	}

	m, err := s.Read(runID)
	if err != nil {
		return nil, err
	}
	sealedAt := time.Now().UTC()
	if m.Sealed() {
		// Marker write was lost on a previous attempt; repair it without
		// disturbing the original timestamp.
		sealedAt = *m.SealedAt
		reason = m.SealReason
	} else {
		m.SealedAt = &sealedAt
		m.SealReason = reason
		m.UpdatedAt = sealedAt
		if err := s.write(runID, m); err != nil {
			return nil, err
		}
	}

	mark := &SealMark{RunID: runID, SealedAt: sealedAt, Reason: reason}
	if s.sealSecret != "" {
		token, err := s.signSeal(runID, reason, sealedAt)
		if err != nil {
			return nil, err
		}
		mark.Token = token
	}
	if err := s.writeSealMark(runID, mark); err != nil {
		return nil, err
	}
	s.logger.Info("sealed run",
		zap.String("run_id", runID),
		zap.String("reason", reason))
	return mark, nil
}

// ReadSealMark loads the marker file. When a signing secret is configured the
// embedded token is verified and ErrSealTampered is returned on mismatch.
func (s *Store) ReadSealMark(runID string) (*SealMark, error) {
	data, err := os.ReadFile(s.sealPath(runID))
	if err != nil {
		return nil, err
	}
	var mark SealMark
	if err := json.Unmarshal(data, &mark); err != nil {
		return nil, fmt.Errorf("%w: seal marker: %v", shared.ErrManifestMalformed, err)
	}
	if s.sealSecret != "" {
		if mark.Token == "" {
			return nil, fmt.Errorf("%w: marker carries no token", shared.ErrSealTampered)
		}
		if err := s.verifySeal(runID, mark.Token); err != nil {
			return nil, err
		}
	}
	return &mark, nil
}

func (s *Store) writeSealMark(runID string, mark *SealMark) error {
	data, err := json.MarshalIndent(mark, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode seal marker: %w", err)
	}
	tmp, err := os.CreateTemp(s.RunDir(runID), sealFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp seal marker: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write seal marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close seal marker: %w", err)
	}
	if err := os.Rename(tmpName, s.sealPath(runID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace seal marker: %w", err)
	}
	return nil
}

func (s *Store) signSeal(runID, reason string, sealedAt time.Time) (string, error) {
	claims := sealClaims{
		Reason: reason,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  runID,
			IssuedAt: jwt.NewNumericDate(sealedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.sealSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign seal marker: %w", err)
	}
	return signed, nil
}

func (s *Store) verifySeal(runID, tokenStr string) error {
	var claims sealClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.sealSecret), nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", shared.ErrSealTampered, err)
	}
	if claims.Subject != runID {
		return fmt.Errorf("%w: marker subject %q does not match run %q", shared.ErrSealTampered, claims.Subject, runID)
	}
	return nil
}

// SealInfo extracts the terminal state of a run for indexing: sealed_at,
// reason and the final confidence. Returns shared.ErrManifestNotFound if the
// run is unknown.
func (s *Store) SealInfo(runID string) (time.Time, string, *models.TrustResult, error) {
	m, err := s.Read(runID)
	if err != nil {
		return time.Time{}, "", nil, err
	}
	if !m.Sealed() {
		return time.Time{}, "", nil, errors.New("run is not sealed")
	}
	return *m.SealedAt, m.SealReason, m.Trust, nil
}
