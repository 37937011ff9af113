package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/baynext/baynext/internal/metrics"
	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
	"github.com/baynext/baynext/internal/service"
)

// Every API route is key-authenticated, including project creation, so
// a fresh deployment has no way to mint its first key through the API.
// This script seeds a user, a project, and one live API key directly
// against the database.

type output struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	KeyID       string `json:"key_id"`
	Key         string `json:"key"`
	KeyPrefix   string `json:"key_prefix"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		userID      = flag.String("user-id", "system", "User ID to own the project")
		email       = flag.String("email", "system@baynext.local", "User email")
		projectName = flag.String("project-name", "Bootstrap", "Project name")
		description = flag.String("key-description", "bootstrap", "API key description")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := repo.GetOrCreateUser(ctx, &model.User{
		ID:    *userID,
		Email: *email,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "ensure user:", err)
		os.Exit(1)
	}

	projects := service.NewProjectService(repo, metrics.NewNoop())
	project, err := projects.CreateProject(ctx, service.CreateProjectInput{
		Name:    *projectName,
		OwnerID: user.ID,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "create project:", err)
		os.Exit(1)
	}

	keys := service.NewKeyService(repo, metrics.NewNoop())
	key, plaintext, err := keys.CreateKey(ctx, project.ID, model.KeyCreateRequest{
		Description: *description,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "create api key:", err)
		os.Exit(1)
	}

	result := output{
		UserID:      user.ID,
		Email:       user.Email,
		ProjectID:   project.ID,
		ProjectName: project.Name,
		KeyID:       key.ID,
		Key:         plaintext,
		KeyPrefix:   key.Prefix,
	}

	if *format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintln(os.Stderr, "encode output:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("user:   ", result.UserID, "("+result.Email+")")
	fmt.Println("project:", result.ProjectID, "("+result.ProjectName+")")
	fmt.Println("key id: ", result.KeyID)
	fmt.Println("key:    ", result.Key)
	fmt.Println()
	fmt.Println("Store the key now; it is not retrievable again.")
}
