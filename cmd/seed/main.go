// Command seed fills the database with demo users, articles, comments and
// likes, then prints a bearer token for every seeded user.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"blogsphere/internal/auth"
	"blogsphere/internal/config"
	"blogsphere/internal/database"
	"blogsphere/internal/middleware"
	"blogsphere/internal/seed"
)

func main() {
	opts := seed.DefaultOptions
	flag.IntVar(&opts.Users, "users", opts.Users, "Number of users to create")
	flag.IntVar(&opts.ArticlesPerUser, "articles", opts.ArticlesPerUser, "Articles per user")
	flag.IntVar(&opts.CommentsPerArticle, "comments", opts.CommentsPerArticle, "Maximum comments per article")
	flag.IntVar(&opts.LikePercent, "like-percent", opts.LikePercent, "Chance (0-100) that a user likes a given item")
	flag.BoolVar(&opts.FastHash, "fast-hash", false, "Hash passwords with the minimum bcrypt cost")
	flag.Int64Var(&opts.RandSeed, "rand-seed", 0, "Seed for generated content (0 = random)")
	fixture := flag.String("fixture", "", `YAML fixture to load instead of generated content ("demo" for the built-in one)`)
	clean := flag.Bool("clean", false, "Remove all existing data first")
	flag.Parse()

	if err := run(opts, *fixture, *clean); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run(opts seed.Options, fixture string, clean bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.InitLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, opts)
	if clean {
		if err := s.ClearAll(ctx); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	var res *seed.Result
	switch fixture {
	case "":
		res, err = s.Random(ctx)
	case "demo":
		fx, ferr := seed.DemoFixture()
		if ferr != nil {
			return ferr
		}
		res, err = s.Apply(ctx, fx)
	default:
		f, ferr := os.Open(fixture)
		if ferr != nil {
			return fmt.Errorf("open fixture: %w", ferr)
		}
		fx, ferr := seed.LoadFixture(f)
		_ = f.Close()
		if ferr != nil {
			return ferr
		}
		res, err = s.Apply(ctx, fx)
	}
	if err != nil {
		return err
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, 0)
	creds, err := seed.IssueTokens(tokens, res.Users)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d users, %d articles, %d comments, %d likes.\n", len(res.Users), res.Articles, res.Comments, res.Likes)
	fmt.Printf("Every user's password is %q.\n\n", seed.DefaultPassword)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEXPIRES\tTOKEN")
	for _, c := range creds {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.UserID, c.Username, c.ExpiresAt.Format("2006-01-02 15:04"), c.Token)
	}
	return w.Flush()
}
