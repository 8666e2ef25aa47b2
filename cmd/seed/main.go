// Package main provides a tool to seed the database with an initial admin
// account, a member account, and a handful of catalog books.
//
// Seeding is idempotent: users and books that already exist are left alone.
//
// Usage:
//
//	DATA_PATH=~/Librarian/data go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/librarianapp/librarian-server/internal/auth"
	"github.com/librarianapp/librarian-server/internal/domain"
	"github.com/librarianapp/librarian-server/internal/store"
	"github.com/librarianapp/librarian-server/internal/store/sqlite"
)

type seedUser struct {
	username string
	password string
	isAdmin  bool
}

var seedUsers = []seedUser{
	{username: "admin", password: "admin123", isAdmin: true},
	{username: "user1", password: "user123", isAdmin: false},
}

var seedBooks = []*domain.Book{
	{Title: "Suç ve Ceza", Author: "Fyodor Dostoyevski", ISBN: "9789754589078", Category: "Roman"},
	{Title: "1984", Author: "George Orwell", ISBN: "9789750718533", Category: "Distopya"},
	{Title: "Yabancı", Author: "Albert Camus", ISBN: "9789750726477", Category: "Roman"},
}

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "Librarian", "data")
	}

	dbPath := filepath.Join(dataPath, "librarian.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	for _, su := range seedUsers {
		if err := createUser(ctx, s, su); err != nil {
			log.Fatalf("Failed to seed user %q: %v", su.username, err)
		}
	}

	for _, book := range seedBooks {
		if err := createBook(ctx, s, book); err != nil {
			log.Fatalf("Failed to seed book %q: %v", book.Title, err)
		}
	}

	fmt.Println("Seed complete")
}

func createUser(ctx context.Context, s *sqlite.Store, su seedUser) error {
	if _, err := s.GetUserByUsername(ctx, su.username); err == nil {
		fmt.Printf("User %q already exists, skipping\n", su.username)
		return nil
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(su.password)
	if err != nil {
		return err
	}

	user := &domain.User{
		Username:     su.username,
		PasswordHash: hash,
		IsAdmin:      su.isAdmin,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return err
	}

	fmt.Printf("Created user %q (admin=%v)\n", su.username, su.isAdmin)
	return nil
}

func createBook(ctx context.Context, s *sqlite.Store, book *domain.Book) error {
	err := s.CreateBook(ctx, book)
	if errors.Is(err, store.ErrISBNExists) {
		fmt.Printf("Book %q already exists, skipping\n", book.Title)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Created book %q by %s\n", book.Title, book.Author)
	return nil
}
