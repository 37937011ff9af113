// Command admin is an operator tool for maintenance that has no API
// surface: reporting job status transitions on behalf of the training
// backend, and inspecting or removing users. User deletion is a hard
// delete; owned projects and everything under them cascade in the
// database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "set-job-status":
		err = setJobStatus(ctx, os.Args[2:])
	case "list-users":
		err = listUsers(ctx, os.Args[2:])
	case "delete-user":
		err = deleteUser(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <set-job-status|list-users|delete-user> [flags]")
}

func connect(ctx context.Context, databaseURL string) (*repository.Repository, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return repository.New(ctx, databaseURL)
}

func setJobStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-job-status", flag.ExitOnError)
	databaseURL := fs.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	jobID := fs.String("job-id", "", "Job ID to update")
	status := fs.String("status", "", "New status: running, succeeded or failed")
	fs.Parse(args)

	switch *status {
	case model.JobStatusRunning, model.JobStatusSucceeded, model.JobStatusFailed:
	default:
		return fmt.Errorf("invalid status %q", *status)
	}
	if *jobID == "" {
		return fmt.Errorf("job-id is required")
	}

	repo, err := connect(ctx, *databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	job, err := repo.GetJobByID(ctx, *jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}

	if err := repo.UpdateJobStatus(ctx, job.ID, *status); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}

	fmt.Printf("job %s: %s -> %s\n", job.ID, job.Status, *status)
	return nil
}

func listUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ExitOnError)
	databaseURL := fs.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	limit := fs.Int("limit", 50, "Maximum number of users to list")
	offset := fs.Int("offset", 0, "Number of users to skip")
	fs.Parse(args)

	repo, err := connect(ctx, *databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	users, err := repo.ListUsers(ctx, *limit, *offset)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, user := range users {
		fmt.Printf("%s\t%s\t%s\n", user.ID, user.Email, user.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func deleteUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
	databaseURL := fs.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	userID := fs.String("user-id", "", "User ID to delete")
	confirm := fs.Bool("yes", false, "Confirm the cascading delete")
	fs.Parse(args)

	if *userID == "" {
		return fmt.Errorf("user-id is required")
	}
	if !*confirm {
		return fmt.Errorf("refusing to delete user %s without -yes; this removes all owned projects", *userID)
	}

	repo, err := connect(ctx, *databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	deleted, err := repo.DeleteUser(ctx, *userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return fmt.Errorf("user %s not found", *userID)
	}

	fmt.Printf("deleted user %s and all owned projects\n", *userID)
	return nil
}
