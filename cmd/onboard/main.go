// CLI tool to complete (or redo) onboarding against the configured store
// without the web client. Prints the derived calorie and water targets.
// Usage: go run ./cmd/onboard
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"lg/nutrition-tracker-api/storage"
	"lg/nutrition-tracker-api/tracker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cfg := storage.Config{DBURL: os.Getenv("DB_URL"), SQLitePath: os.Getenv("SQLITE_PATH")}
	if cfg.DBURL == "" && cfg.SQLitePath == "" {
		cfg.SQLitePath = "data/tracker.db"
	}
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	svc, err := tracker.NewService(ctx, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load tracker state: %v\n", err)
		os.Exit(1)
	}

	in, err := readOnboarding(bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading answers: %v\n", err)
		os.Exit(1)
	}

	profile, award, err := svc.CompleteOnboarding(ctx, in)
	if errors.Is(err, tracker.ErrInvalidInput) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving profile: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nOnboarding complete!\n")
	fmt.Printf("  Goal:        %s\n", profile.Goal)
	fmt.Printf("  BMR:         %d kcal\n", profile.CalculatedBMR)
	fmt.Printf("  Daily kcal:  %d\n", profile.DailyKcalGoal)
	fmt.Printf("  Daily water: %d ml\n", profile.DailyWaterGoalML)
	if award.Amount > 0 {
		fmt.Printf("  XP earned:   %d\n", award.Amount+award.BadgeXP)
	}
}

// readOnboarding prompts for every questionnaire field on out and reads the
// answers from r.
func readOnboarding(r *bufio.Reader, out io.Writer) (tracker.OnboardingInput, error) {
	var in tracker.OnboardingInput
	var err error
	ask := func(label string) string {
		if err != nil {
			return ""
		}
		fmt.Fprintf(out, "%s: ", label)
		var line string
		line, err = r.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		return strings.TrimSpace(line)
	}
	askFloat := func(label string) float64 {
		s := ask(label)
		if err != nil {
			return 0
		}
		v, perr := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if perr != nil {
			err = fmt.Errorf("%s: %q is not a number", label, s)
		}
		return v
	}

	in.Name = ask("Name")
	in.Sex = tracker.Sex(strings.ToUpper(ask("Sex (M/F)")))
	in.BirthDate = ask("Birth date (YYYY-MM-DD)")
	in.HeightCM = askFloat("Height (cm)")
	in.WeightKG = askFloat("Current weight (kg)")
	in.TargetWeightKG = askFloat("Target weight (kg)")
	in.AbdominalCircCM = askFloat("Abdominal circumference (cm)")
	in.ActivityFactor = askFloat("Activity factor (1.2, 1.375, 1.55, 1.725)")
	return in, err
}
