// Command seed loads a set of sample products and events through the item
// repository so a fresh database has something to sell.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/shopkit/shopkit/internal/domain"
	"github.com/shopkit/shopkit/internal/repository"
	"github.com/shopkit/shopkit/pkg/config"
	"github.com/shopkit/shopkit/pkg/logger"
	"github.com/shopkit/shopkit/pkg/postgres"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type seedItem struct {
	name        string
	price       string
	description string
	thumbnail   string
	stock       int64
	kind        domain.Kind
}

var seedItems = []seedItem{
	{"Eco-Friendly Water Bottle", "20.00", "Stay hydrated in style with our durable and sustainable water bottle.", "thumbnail_bottle.jpg", 3, domain.KindProduct},
	{"Bluetooth Noise-Canceling Headphones", "89.99", "Experience crystal-clear sound without distractions.", "thumbnail_headphones.jpg", 5, domain.KindProduct},
	{"Organic Cotton Yoga Mat", "45.00", "Find your zen with our eco-friendly and comfortable yoga mat.", "thumbnail_yogamat.jpg", 2, domain.KindProduct},
	{"Gourmet Coffee Beans", "15.50", "Start your day right with our premium, ethically sourced coffee beans.", "thumbnail_coffee.jpg", 5, domain.KindProduct},
	{"Smart Indoor Herb Garden", "120.00", "Grow fresh herbs all year round with our automated indoor garden.", "thumbnail_herbgarden.jpg", 1, domain.KindProduct},
	{"Live Coding Workshop", "50.00", "Enhance your programming skills in our interactive coding workshop.", "thumbnail_codingworkshop.jpg", 10, domain.KindEvent},
	{"Outdoor Photography Class", "75.00", "Capture the beauty of nature with tips from our expert photographer.", "thumbnail_photography.jpg", 3, domain.KindEvent},
}

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "shopkit-seed", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx := context.Background()

	pool, err := postgres.Open(ctx, postgres.Config{
		Host: cfg.PostgresHost,
		Port: cfg.PostgresPort,
		User: cfg.PostgresUser,
		Pass: cfg.PostgresPass,
		DB:   cfg.PostgresDB,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer pool.Close()

	items := repository.NewItem(pool)

	for _, s := range seedItems {
		price, err := decimal.NewFromString(s.price)
		if err != nil {
			log.Error("bad seed price", slog.String("name", s.name), slog.Any("err", err))
			os.Exit(1)
		}

		created, err := items.Create(ctx, domain.Item{
			Name:        s.name,
			Price:       domain.Money{Amount: price, Currency: currency.USD},
			Description: s.description,
			Thumbnail:   s.thumbnail,
			Stock:       s.stock,
			Kind:        s.kind,
		})
		if err != nil {
			log.Error("seed failed", slog.String("name", s.name), slog.Any("err", err))
			os.Exit(1)
		}

		log.Info("seeded", slog.String("id", created.ID.String()), slog.String("name", created.Name))
	}
}
