// Command videotubectl runs database maintenance tasks for VideoTube.
package main

import (
	"context"
	"fmt"
	"os"

	"videotube/internal/config"
	"videotube/internal/database"
	"videotube/internal/middleware"
	"videotube/internal/seed"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect loads the configuration and opens the database.
func connect() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	return db, nil
}

var rootCmd = &cobra.Command{
	Use:          "videotubectl",
	Short:        "VideoTube database tooling",
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Println("Schema is up to date")
		return nil
	},
}

var seedOpts = seed.DefaultOptions()

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo users, videos, tweets and relations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		sum, err := seed.NewSeeder(db, middleware.Logger).Seed(context.Background(), seedOpts)
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}

		fmt.Printf("Users:         %d\n", sum.Users)
		fmt.Printf("Videos:        %d\n", sum.Videos)
		fmt.Printf("Tweets:        %d\n", sum.Tweets)
		fmt.Printf("Comments:      %d\n", sum.Comments)
		fmt.Printf("Likes:         %d\n", sum.Likes)
		fmt.Printf("Subscriptions: %d\n", sum.Subscriptions)
		fmt.Printf("All seeded users have the password: %s\n", seed.DefaultPassword)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every row the application owns",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		return seed.NewSeeder(db, middleware.Logger).ClearAll(context.Background())
	},
}

func init() {
	f := seedCmd.Flags()
	f.IntVar(&seedOpts.Users, "users", seedOpts.Users, "number of users to create")
	f.IntVar(&seedOpts.VideosPerUser, "videos", seedOpts.VideosPerUser, "videos per user")
	f.IntVar(&seedOpts.TweetsPerUser, "tweets", seedOpts.TweetsPerUser, "tweets per user")
	f.IntVar(&seedOpts.CommentsPerVideo, "comments", seedOpts.CommentsPerVideo, "comments per video")
	f.IntVar(&seedOpts.LikePercent, "like-percent", seedOpts.LikePercent, "chance a user likes a given video or tweet")
	f.IntVar(&seedOpts.SubscribePercent, "subscribe-percent", seedOpts.SubscribePercent, "chance a user follows a given channel")
	f.BoolVar(&seedOpts.Clean, "clean", seedOpts.Clean, "clear existing data first")
	f.BoolVar(&seedOpts.SkipBcrypt, "skip-bcrypt", seedOpts.SkipBcrypt, "store plain passwords for speed (development only)")
	f.Int64Var(&seedOpts.Seed, "seed", seedOpts.Seed, "random seed, 0 for a random run")

	rootCmd.AddCommand(migrateCmd, seedCmd, clearCmd)
}
