//go:build ignore

// Command generate_sample_coupons writes gzipped JSON-lines coupon
// definitions for the start-up importer:
//
//	go run scripts/generate_sample_coupons.go
//	IMPORT_FILES=data/coupons/couponbase1.gz,data/coupons/couponbase2.gz
package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"coupon-service/internal/model"
)

type definition struct {
	code    string
	name    string
	company string
	kind    model.CouponType
	total   int
	days    int
}

func main() {
	dataDir := "data/coupons"

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	// SUMMER2026 appears in both files; the importer keeps the first.
	files := map[string][]definition{
		"couponbase1.gz": {
			{"SUMMER2026", "Summer Sale", "Acme", model.CouponTypePercentageDiscount, 100, 90},
			{"WELCOME10", "Welcome Offer", "Acme", model.CouponTypeFixedDiscount, 500, 365},
			{"BOGOCOFFEE", "Buy One Get One", "Bean There", model.CouponTypeOther, 50, 30},
		},
		"couponbase2.gz": {
			{"SUMMER2026", "Summer Sale (duplicate)", "Acme", model.CouponTypePercentageDiscount, 1, 1},
			{"WINTER2026", "Winter Sale", "Acme", model.CouponTypePercentageDiscount, 200, 180},
			{"FREESHIP", "Free Shipping", "Parcel Co", model.CouponTypeFixedDiscount, 1000, 60},
		},
	}

	for filename, defs := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := writeDefinitions(filePath, defs); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d coupon definitions\n", filePath, len(defs))
	}
}

func writeDefinitions(filePath string, defs []definition) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	enc := json.NewEncoder(gzipWriter)
	for _, d := range defs {
		req := model.CouponRequest{
			Name:           d.name,
			CompanyName:    d.company,
			CouponType:     d.kind,
			Product:        "All products",
			TotalAvailable: d.total,
			ExpiryDate:     time.Now().AddDate(0, 0, d.days).UTC().Truncate(time.Second),
			CouponCode:     d.code,
		}
		if err := enc.Encode(req); err != nil {
			return fmt.Errorf("failed to write coupon %s: %w", d.code, err)
		}
	}

	return nil
}
