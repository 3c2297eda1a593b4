package main

import (
	"errors"
	"fmt"

	"chargallery/apperr"
	"chargallery/database"
	"chargallery/models"
	"chargallery/utils"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

var (
	seedEmail    string
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo tags, characters and an admin user",
	Long: `Seeds an empty database with a handful of tags and characters owned by an
admin account. Existing tags and users are reused; characters are only
inserted when the collection is empty.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@example.com", "admin account email")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "admin account password (required)")
	_ = seedCmd.MarkFlagRequired("password")
}

var seedTags = []string{"hero", "villain", "mage", "rogue"}

var seedCharacters = []struct {
	name, description string
	tags              []string
}{
	{"Aria", "Archer of the northern woods", []string{"hero"}},
	{"Borin", "Smith turned warlord", []string{"hero", "villain"}},
	{"Cass", "Keeper of forbidden scrolls", []string{"villain", "mage"}},
	{"Dain", "Lockpick with a conscience", []string{"rogue", "hero"}},
}

func runSeed(cmd *cobra.Command, args []string) error {
	if cfg.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	ctx := cmd.Context()

	client, err := database.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDatabase)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	users := database.NewUserRepository(db)
	admin, err := users.FindByEmail(ctx, seedEmail)
	if errors.Is(err, apperr.ErrNotFound) {
		hash, hashErr := utils.HashPass(seedPassword)
		if hashErr != nil {
			return hashErr
		}
		admin, err = users.Create(ctx, models.User{
			Username: "admin",
			Email:    seedEmail,
			Password: hash,
			Role:     models.RoleAdmin,
		})
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	tagRepo := database.NewTagRepository(db)
	existing, err := tagRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	tagIDs := make(map[string]bson.ObjectID, len(existing))
	for _, t := range existing {
		tagIDs[t.Name] = t.ID
	}
	for _, name := range seedTags {
		if _, ok := tagIDs[name]; ok {
			continue
		}
		t, err := tagRepo.Create(ctx, name)
		if err != nil {
			return fmt.Errorf("seed tag %q: %w", name, err)
		}
		tagIDs[name] = t.ID
	}

	characters := database.NewCharacterRepository(db)
	n, err := characters.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("characters already present, skipping", zap.Int64("count", n))
		return nil
	}

	for _, sc := range seedCharacters {
		c := models.Character{Name: sc.name, Description: sc.description, AuthorID: admin.ID}
		for _, name := range sc.tags {
			c.TagIDs = append(c.TagIDs, tagIDs[name])
		}
		if _, err := characters.Create(ctx, c); err != nil {
			return fmt.Errorf("seed character %q: %w", sc.name, err)
		}
	}

	log.Info("seed complete",
		zap.Int("tags", len(tagIDs)),
		zap.Int("characters", len(seedCharacters)),
	)
	return nil
}
