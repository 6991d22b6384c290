package main

import (
	"context"
	"log"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cases"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/config"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/db"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/taxonomy"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedCase struct {
	Title    string
	OneLiner string
	Locale   string
	Tags     []string
	Tools    []string
	Stack    []string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	tagRepo := taxonomy.NewRepository(cols.Tags)
	toolRepo := taxonomy.NewRepository(cols.Tools)

	tagSlugs := []string{"ai-tools", "saas", "automation", "e-commerce", "side-project"}
	toolSlugs := []string{"cursor", "claude", "v0", "supabase", "vercel"}

	for _, slug := range tagSlugs {
		if _, err := tagRepo.Ensure(ctx, slug, utils.Humanize(slug)); err != nil {
			log.Fatal(err)
		}
	}
	for _, slug := range toolSlugs {
		if _, err := toolRepo.Ensure(ctx, slug, utils.Humanize(slug)); err != nil {
			log.Fatal(err)
		}
	}

	demo := []seedCase{
		{
			Title:    "Van idee naar webshop in een weekend",
			OneLiner: "Een complete e-commerce site gebouwd met AI-assistentie.",
			Locale:   "nl",
			Tags:     []string{"e-commerce", "ai-tools"},
			Tools:    []string{"cursor", "supabase"},
			Stack:    []string{"Next.js", "Supabase", "Stripe"},
		},
		{
			Title:    "Shipping a SaaS dashboard in ten evenings",
			OneLiner: "A metrics dashboard built nights-and-weekends with an AI pair.",
			Locale:   "en",
			Tags:     []string{"saas", "side-project"},
			Tools:    []string{"claude", "vercel"},
			Stack:    []string{"Next.js", "Postgres", "Tailwind"},
		},
		{
			Title:    "Automatizando facturas con un copiloto",
			OneLiner: "Flujo de facturacion automatizado en una semana.",
			Locale:   "es",
			Tags:     []string{"automation"},
			Tools:    []string{"v0", "supabase"},
			Stack:    []string{"Next.js", "Supabase"},
		},
	}

	for _, c := range demo {
		tagIDs, err := ensureIDs(ctx, tagRepo, c.Tags)
		if err != nil {
			log.Fatal(err)
		}
		toolIDs, err := ensureIDs(ctx, toolRepo, c.Tools)
		if err != nil {
			log.Fatal(err)
		}

		slug := utils.Slugify(c.Title)
		filter := bson.M{"slug": slug, "locale": c.Locale}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID().Hex(),
				"slug":       slug,
				"title":      c.Title,
				"one_liner":  c.OneLiner,
				"locale":     c.Locale,
				"status":     cases.StatusPublished,
				"tag_ids":    tagIDs,
				"tool_ids":   toolIDs,
				"stack":      c.Stack,
				"created_at": time.Now().In(cfg.Timezone),
				"updated_at": time.Now().In(cfg.Timezone),
			},
		}

		if _, err := cols.Cases.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("seeded %d tags, %d tools, %d cases", len(tagSlugs), len(toolSlugs), len(demo))
}

func ensureIDs(ctx context.Context, repo taxonomy.Repository, slugs []string) ([]string, error) {
	ids := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		entity, err := repo.Ensure(ctx, slug, utils.Humanize(slug))
		if err != nil {
			return nil, err
		}
		ids = append(ids, entity.ID)
	}
	return ids, nil
}
