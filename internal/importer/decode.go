package importer

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"coupon-service/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// maxLineBytes bounds a single JSON definition line.
const maxLineBytes = 1024 * 1024

var validate = validator.New()

// decodeDefinitions reads gzipped JSON lines from r. source only labels log entries.
func decodeDefinitions(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) ([]model.CouponRequest, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var defs []model.CouponRequest
	lineNo, skipped := 0, 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("file", source).Msg("coupon import cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req model.CouponRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			skipped++
			logger.Warn().Err(err).Str("file", source).Int("line", lineNo).Msg("skipping unparseable coupon definition")
			continue
		}
		if err := validateDefinition(req); err != nil {
			skipped++
			logger.Warn().Err(err).Str("file", source).Int("line", lineNo).Msg("skipping invalid coupon definition")
			continue
		}
		defs = append(defs, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading coupon file %s: %w", source, err)
	}

	logger.Info().
		Str("file", source).
		Int("definitions", len(defs)).
		Int("skipped", skipped).
		Msg("coupon file decoded")

	return defs, nil
}

// validateDefinition applies the API's request rules plus a mandatory code,
// which import relies on for idempotency.
func validateDefinition(req model.CouponRequest) error {
	if req.CouponCode == "" {
		return fmt.Errorf("couponCode is required for import")
	}
	return validate.Struct(req)
}
