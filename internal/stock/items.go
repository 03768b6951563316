package stock

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/random"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/internal/store"
	"github.com/wildfireconsulting/quantix/pkg/common"
)

// RegisterInput carries a new item. Image is an optional upload handed to the
// external normalizer; the record falls back to the shared placeholder when
// it is absent or normalization produced nothing.
type RegisterInput struct {
	ProductID   string
	ProductName string
	Quantity    int
	MinStock    int
	CostPrice   domain.Money
	SellPrice   domain.Money
	Image       io.Reader
}

// Register creates a product record, triggers asset generation, and persists
// the row. Duplicate ids and malformed fields are rejected before any write.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.ProductRecord, error) {
	in.ProductID = store.CanonicalID(in.ProductID)
	if in.ProductID == "" || strings.TrimSpace(in.ProductName) == "" {
		return nil, domain.ErrMissingField
	}
	if in.Quantity < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.CostPrice.IsNegative() || in.SellPrice.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}
	if _, exists := s.store.Find(in.ProductID); exists {
		return nil, domain.ErrDuplicateID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	imagePath := s.layout.Placeholder()
	if in.Image != nil {
		target := s.layout.ImagePath(in.ProductID)
		if err := s.normalizer.Normalize(ctx, in.Image, target); err != nil {
			zap.L().Warn("image normalization failed, keeping placeholder",
				zap.String("product_id", in.ProductID), zap.Error(err))
		} else if common.FileExists(target) {
			imagePath = target
		}
	}

	// generation failures must not block registration; the reconciler adopts
	// the files whenever they show up
	if err := s.generator.Generate(ctx, in.ProductID); err != nil {
		zap.L().Warn("asset generation failed",
			zap.String("product_id", in.ProductID), zap.Error(err))
	}
	manifest := s.layout.Resolve(in.ProductID)
	qrPath := manifest.QR
	if qrPath == "" {
		qrPath = s.layout.Placeholder()
	}
	barcodePath := manifest.Barcode
	if barcodePath == "" {
		barcodePath = s.layout.Placeholder()
	}

	rec := &domain.ProductRecord{
		ProductID:   in.ProductID,
		ProductName: strings.TrimSpace(in.ProductName),
		Quantity:    in.Quantity,
		MinStock:    in.MinStock,
		CostPrice:   in.CostPrice,
		SellPrice:   in.SellPrice,
		LastUpdated: domain.NewTimestamp(s.now()),
		ImagePath:   imagePath,
		QRPath:      qrPath,
		BarcodePath: barcodePath,
	}
	if err := s.store.Insert(rec); err != nil {
		return nil, err
	}
	zap.L().Info("product registered",
		zap.String("product_id", rec.ProductID),
		zap.String("name", rec.ProductName),
		zap.Int("quantity", rec.Quantity))
	return rec, nil
}

// UpdateInput is the full edit form: all scalar fields are written as given.
// NewImage, when present, replaces the product image.
type UpdateInput struct {
	ProductName string
	Quantity    int
	MinStock    int
	CostPrice   domain.Money
	SellPrice   domain.Money
	NewImage    io.Reader
}

// Update edits a record in place. Replacing the image removes stale same-id
// files left behind under other extensions.
func (s *Service) Update(ctx context.Context, productID string, in UpdateInput) (*domain.ProductRecord, error) {
	if strings.TrimSpace(in.ProductName) == "" {
		return nil, domain.ErrMissingField
	}
	if in.Quantity < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.CostPrice.IsNegative() || in.SellPrice.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var imagePath string
	if in.NewImage != nil {
		target := s.layout.ImagePath(productID)
		if err := s.normalizer.Normalize(ctx, in.NewImage, target); err != nil {
			zap.L().Warn("image normalization failed, keeping current image",
				zap.String("product_id", productID), zap.Error(err))
		} else if common.FileExists(target) {
			imagePath = target
			s.removeStaleImages(productID, target)
		}
	}

	var updated domain.ProductRecord
	err := s.store.Mutate(productID, func(rec *domain.ProductRecord) error {
		rec.ProductName = strings.TrimSpace(in.ProductName)
		rec.Quantity = in.Quantity
		rec.MinStock = in.MinStock
		rec.CostPrice = in.CostPrice
		rec.SellPrice = in.SellPrice
		if imagePath != "" {
			rec.ImagePath = imagePath
		}
		updated = *rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the record and cascades to its linked asset files.
func (s *Service) Delete(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(productID); err != nil {
		return err
	}
	patterns := []string{
		filepath.Join(s.layout.ImageDir(), productID+".*"),
		s.layout.QRPath(productID),
		s.layout.BarcodePath(productID),
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, path := range matches {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				zap.L().Warn("failed to remove asset file",
					zap.String("path", path), zap.Error(err))
			}
		}
	}
	zap.L().Info("product deleted", zap.String("product_id", productID))
	return nil
}

// RegenerateAssets re-invokes the external generator for an existing product
// and re-links the record to whatever landed on disk.
func (s *Service) RegenerateAssets(ctx context.Context, productID string) error {
	if _, exists := s.store.Find(productID); !exists {
		return domain.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.generator.Generate(ctx, productID); err != nil {
		return errors.Wrapf(err, "regenerate assets for %s", productID)
	}
	manifest := s.layout.Resolve(productID)
	return s.store.Mutate(productID, func(rec *domain.ProductRecord) error {
		if manifest.QR != "" {
			rec.QRPath = manifest.QR
		}
		if manifest.Barcode != "" {
			rec.BarcodePath = manifest.Barcode
		}
		return nil
	})
}

// SuggestID returns an unused random 8-digit numeric id for the register form.
func (s *Service) SuggestID() string {
	for {
		id := random.String(8, random.Numeric)
		if _, exists := s.store.Find(id); !exists {
			return id
		}
	}
}

func (s *Service) removeStaleImages(productID, keep string) {
	matches, err := filepath.Glob(filepath.Join(s.layout.ImageDir(), productID+".*"))
	if err != nil {
		return
	}
	for _, path := range matches {
		if path == keep {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			zap.L().Warn("failed to remove stale image",
				zap.String("path", path), zap.Error(err))
		}
	}
}
