package main

import (
	"fmt"
	"os"

	"github.com/bakehouse-next/internal/config"
	"github.com/bakehouse-next/internal/logger"
	"github.com/bakehouse-next/internal/models"
)

// seedProducts is the demo catalog. Seeding is idempotent by product name.
var seedProducts = []models.Product{
	{
		Name:        "Butter Croissant",
		Description: "Classic laminated croissant with French butter, baked every morning.",
		PriceCents:  350,
		Category:    "pastries",
		Available:   true,
	},
	{
		Name:        "Pain au Chocolat",
		Description: "Flaky pastry wrapped around two batons of dark chocolate.",
		PriceCents:  400,
		Category:    "pastries",
		Available:   true,
	},
	{
		Name:        "Cinnamon Roll",
		Description: "Soft brioche roll with cinnamon sugar and cream cheese glaze.",
		PriceCents:  450,
		Category:    "pastries",
		Available:   true,
	},
	{
		Name:        "Sourdough Loaf",
		Description: "Naturally leavened country loaf, 48-hour cold fermentation.",
		PriceCents:  800,
		Category:    "bread",
		Available:   true,
	},
	{
		Name:        "Seeded Rye",
		Description: "Dense rye bread with sunflower, flax and pumpkin seeds.",
		PriceCents:  750,
		Category:    "bread",
		Available:   true,
	},
	{
		Name:        "Baguette",
		Description: "Traditional French baguette with a thin, crackly crust.",
		PriceCents:  300,
		Category:    "bread",
		Available:   true,
	},
	{
		Name:        "Carrot Cake Slice",
		Description: "Spiced carrot cake with walnuts and cream cheese frosting.",
		PriceCents:  550,
		Category:    "cakes",
		Available:   true,
	},
	{
		Name:        "Chocolate Fudge Cake",
		Description: "Whole 8-inch layer cake, serves ten. Order a day ahead.",
		PriceCents:  3800,
		Category:    "cakes",
		Available:   true,
	},
	{
		Name:        "Lemon Tart",
		Description: "Shortcrust tart filled with tangy lemon curd, torched meringue.",
		PriceCents:  600,
		Category:    "cakes",
		Available:   true,
	},
	{
		Name:        "Chocolate Chip Cookie",
		Description: "Chewy cookie with dark chocolate chunks and sea salt.",
		PriceCents:  250,
		Category:    "cookies",
		Available:   true,
	},
	{
		Name:        "Seasonal Fruit Danish",
		Description: "Danish pastry topped with whatever fruit is best this week.",
		PriceCents:  425,
		Category:    "pastries",
		Available:   false,
	},
}

func main() {
	cfg := config.Load()

	log := logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer func() { _ = log.Sync() }()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "db init failed: %v\n", err)
		os.Exit(1)
	}
	if err := models.AutoMigrate(); err != nil {
		fmt.Fprintf(os.Stderr, "db migrate failed: %v\n", err)
		os.Exit(1)
	}

	created, skipped := 0, 0
	for _, product := range seedProducts {
		var count int64
		if err := models.DB.Model(&models.Product{}).
			Where("name = ?", product.Name).
			Count(&count).Error; err != nil {
			logger.Fatalw("seed_lookup_failed", "product", product.Name, "error", err)
		}
		if count > 0 {
			skipped++
			continue
		}
		p := product
		if err := models.DB.Create(&p).Error; err != nil {
			logger.Fatalw("seed_create_failed", "product", product.Name, "error", err)
		}
		created++
	}

	logger.Infow("seed_done", "created", created, "skipped", skipped)
}
