package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"buurbak-availability/internal/config"
	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/repository/postgres"
)

type User struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

type WeeklyDay struct {
	Day       string   `yaml:"day"`
	Available bool     `yaml:"available"`
	Slots     []string `yaml:"slots"` // "HH:MM-HH:MM"
}

type Trailer struct {
	Name   string      `yaml:"name"`
	Owner  string      `yaml:"owner"` // user email
	Weekly []WeeklyDay `yaml:"weekly"`
}

type Rental struct {
	Trailer string `yaml:"trailer"`
	Renter  string `yaml:"renter"` // user email
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
	Status  string `yaml:"status"`
}

type SeedData struct {
	Users    []User    `yaml:"users"`
	Trailers []Trailer `yaml:"trailers"`
	Rentals  []Rental  `yaml:"rentals"`
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	dataPath := flag.String("data", "cmd/seed/seed.dev.yaml", "Path to seed data file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	data, err := readSeedFile(*dataPath)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Printf("✓ Connected to database: %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	if err := populateData(context.Background(), db, data); err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}
	log.Println("✅ Seed data successfully populated!")
}

func readSeedFile(filename string) (*SeedData, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// weeklyTemplate converts the seed shape and validates it like an API update.
func weeklyTemplate(days []WeeklyDay) ([]domain.WeeklyAvailability, error) {
	out := make([]domain.WeeklyAvailability, 0, len(days))
	for _, d := range days {
		day, err := domain.ParseWeekday(d.Day)
		if err != nil {
			return nil, err
		}
		w := domain.WeeklyAvailability{Day: day, Available: d.Available}
		for _, s := range d.Slots {
			win, err := domain.ParseTimeWindow(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d.Day, err)
			}
			w.Slots = append(w.Slots, domain.TimeSlot{Start: win.Start.String(), End: win.End.String()})
		}
		if err := w.Validate(); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func populateData(ctx context.Context, db *sql.DB, data *SeedData) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	users := make(map[string]int32, len(data.Users))
	for i, u := range data.Users {
		log.Printf("Creating user %d/%d: %s (%s)", i+1, len(data.Users), u.Name, u.Email)
		var id int32
		err := tx.QueryRowContext(ctx, `
			INSERT INTO users (email, name, created_on) VALUES ($1, $2, $3)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, u.Email, u.Name, time.Now()).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		users[u.Email] = id
	}

	trailers := make(map[string]int32, len(data.Trailers))
	templates := make(map[int32][]domain.WeeklyAvailability)
	for _, t := range data.Trailers {
		owner, ok := users[t.Owner]
		if !ok {
			return fmt.Errorf("trailer %s: unknown owner %s", t.Name, t.Owner)
		}
		week, err := weeklyTemplate(t.Weekly)
		if err != nil {
			return fmt.Errorf("trailer %s: %w", t.Name, err)
		}
		var id int32
		err = tx.QueryRowContext(ctx, `
			INSERT INTO trailers (owner_id, name, created_on) VALUES ($1, $2, $3) RETURNING id
		`, owner, t.Name, time.Now()).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create trailer %s: %w", t.Name, err)
		}
		trailers[t.Name] = id
		templates[id] = week
		log.Printf("  ✓ Trailer %q created with ID: %d", t.Name, id)
	}

	for _, r := range data.Rentals {
		trailerID, ok := trailers[r.Trailer]
		if !ok {
			return fmt.Errorf("rental: unknown trailer %s", r.Trailer)
		}
		renterID, ok := users[r.Renter]
		if !ok {
			return fmt.Errorf("rental: unknown renter %s", r.Renter)
		}
		start, err := domain.ParseDate(r.Start)
		if err != nil {
			return err
		}
		end, err := domain.ParseDate(r.End)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO rentals (trailer_id, renter_id, lessor_id, start_date, end_date, status, created_on)
			SELECT $1, $2, owner_id, $3, $4, $5, $6 FROM trailers WHERE id = $1
		`, trailerID, renterID, start.Time(), end.Time(), r.Status, time.Now())
		if err != nil {
			return fmt.Errorf("failed to create rental on %s: %w", r.Trailer, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Weekly templates go through the repository so they are stored exactly
	// as the API writes them.
	weekly := postgres.NewWeeklyAvailabilityRepository(db)
	for id, week := range templates {
		if len(week) == 0 {
			continue
		}
		if err := weekly.Upsert(ctx, id, week); err != nil {
			return fmt.Errorf("failed to store weekly template for trailer %d: %w", id, err)
		}
		log.Printf("  ✓ Weekly template stored for trailer %d (%d days)", id, len(week))
	}
	return nil
}
