// Command seed fills an empty catalog with a handful of demo products, so a
// fresh storefront has something to sell.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/decishop/storefront/config"
	"github.com/decishop/storefront/core/product"
	"github.com/decishop/storefront/database"
	"github.com/decishop/storefront/validate"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	const prefix = "STOREFRONT"
	var cfg config.Config
	if help, err := conf.Parse(prefix, &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open db connection: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate db: %w", err)
	}

	ctx := context.Background()

	existing, err := product.FetchAll(ctx, db)
	if err != nil {
		return fmt.Errorf("checking catalog: %w", err)
	}
	if len(existing) > 0 {
		logger.Infof("catalog already holds %d products, nothing to do", len(existing))
		return nil
	}

	seed := []product.ProductNew{
		{
			Name:        "Fone X",
			Brand:       "Deci",
			Price:       decimal.RequireFromString("199.90"),
			Status:      product.Featured,
			Description: "Wireless headphones with active noise cancelling",
			Specs:       "Bluetooth 5.3; 30h battery; USB-C",
			ImageURL:    "/static/img/fone-x.png",
		},
		{
			Name:        "Smartwatch S2",
			Brand:       "Deci",
			Price:       decimal.RequireFromString("349.00"),
			Status:      product.Featured,
			Description: "Fitness watch with heart-rate monitor and GPS",
			Specs:       "AMOLED; 7-day battery; 5 ATM",
			ImageURL:    "/static/img/smartwatch-s2.png",
		},
		{
			Name:        "Case Y",
			Brand:       "Deci",
			Price:       decimal.RequireFromString("50.00"),
			Status:      product.InStock,
			Description: "Protective case for Fone X",
			Specs:       "Recycled plastic",
			ImageURL:    "/static/img/case-y.png",
		},
		{
			Name:        "Caixa de Som Mini",
			Brand:       "Deci",
			Price:       decimal.RequireFromString("129.90"),
			Status:      product.InStock,
			Description: "Portable bluetooth speaker",
			Specs:       "10W; IPX5; 12h battery",
			ImageURL:    "/static/img/caixa-mini.png",
		},
	}

	for _, pn := range seed {
		now := time.Now().UTC()
		p := product.Product{
			ID:          validate.GenerateID(),
			Name:        pn.Name,
			Brand:       pn.Brand,
			Price:       pn.Price,
			Status:      pn.Status,
			Description: pn.Description,
			Specs:       pn.Specs,
			ImageURL:    pn.ImageURL,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := product.Create(ctx, db, p); err != nil {
			return fmt.Errorf("seeding product %q: %w", p.Name, err)
		}

		logger.Infof("seeded product %q", p.Name)
	}

	return nil
}
