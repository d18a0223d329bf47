package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Storage keys. Values are JSON records.
const (
	KeyDayLogs    = "nutritionLogs"
	KeyBiometrics = "biometricsLogs"
	KeyProfile    = "userProfile"
	KeyStats      = "userStats"
)

// Store is the key-value persistence collaborator. Load reports ok=false for
// a key that was never saved.
type Store interface {
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
}

// BatchStore is a Store that saves several keys in one transaction. commit
// uses it when available so a failed save leaves every key unchanged.
type BatchStore interface {
	Store
	SaveMany(ctx context.Context, values map[string][]byte) error
}

// AnalysisInput is free text or a base64 image (optionally a data URI).
type AnalysisInput struct {
	Text        string `json:"description"`
	ImageBase64 string `json:"image_base64"`
}

// Analyzer is the food-recognition collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, in AnalysisInput) ([]MealItem, error)
}

// Event kinds published after a committed change.
const (
	EventBadgeUnlocked      = "badge.unlocked"
	EventLevelUp            = "level.up"
	EventChallengeCompleted = "challenge.completed"
)

type Event struct {
	Kind string    `json:"kind"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

// EventSink receives engine events. Publish must not block for long.
type EventSink interface {
	Publish(Event)
}

// state is one consistent snapshot of every aggregate.
type state struct {
	logs       map[string]DayLog
	biometrics []BiometricEntry
	profile    Profile
	stats      Stats
}

func (st state) clone() state {
	logs := make(map[string]DayLog, len(st.logs))
	for k, v := range st.logs {
		logs[k] = v
	}
	return state{
		logs:       logs,
		biometrics: append([]BiometricEntry(nil), st.biometrics...),
		profile:    st.profile,
		stats:      st.stats.clone(),
	}
}

// Service runs every user action through the engine: day summary, streaks,
// badge pass and XP, then persists the changed keys. State is replaced only
// after every save succeeded.
type Service struct {
	mu       sync.Mutex
	store    Store
	analyzer Analyzer
	events   EventSink
	now      func() time.Time
	newID    func() string

	cur state
}

type Option func(*Service)

func WithAnalyzer(a Analyzer) Option { return func(s *Service) { s.analyzer = a } }
func WithEvents(e EventSink) Option { return func(s *Service) { s.events = e } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }
func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

// NewService loads all aggregates from store. Missing keys start empty.
func NewService(ctx context.Context, store Store, opts ...Option) (*Service, error) {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}

	st := state{
		logs:       map[string]DayLog{},
		biometrics: []BiometricEntry{},
		profile:    DefaultProfile(),
		stats:      DefaultStats(),
	}
	if err := s.load(ctx, KeyDayLogs, &st.logs); err != nil {
		return nil, err
	}
	if err := s.load(ctx, KeyBiometrics, &st.biometrics); err != nil {
		return nil, err
	}
	if err := s.load(ctx, KeyProfile, &st.profile); err != nil {
		return nil, err
	}
	if err := s.load(ctx, KeyStats, &st.stats); err != nil {
		return nil, err
	}

	if st.logs == nil {
		st.logs = map[string]DayLog{}
	}
	if st.biometrics == nil {
		st.biometrics = []BiometricEntry{}
	}
	sortBiometrics(st.biometrics)
	st.stats.Badges = mergeCatalog(st.stats.Badges)
	if st.stats.Challenges == nil {
		st.stats.Challenges = []Challenge{}
	}
	st.stats.Level = LevelFromXP(st.stats.TotalXP)
	s.cur = st
	return s, nil
}

func (s *Service) load(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// commit saves the listed keys of next and then makes next current.
func (s *Service) commit(ctx context.Context, next state, keys ...string) error {
	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var v any
		switch key {
		case KeyDayLogs:
			v = next.logs
		case KeyBiometrics:
			v = next.biometrics
		case KeyProfile:
			v = next.profile
		case KeyStats:
			v = next.stats
		default:
			return fmt.Errorf("unknown key %q", key)
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = raw
	}

	if bs, ok := s.store.(BatchStore); ok {
		if err := bs.SaveMany(ctx, values); err != nil {
			return fmt.Errorf("save %s: %w", strings.Join(keys, ","), err)
		}
	} else {
		for _, key := range keys {
			if err := s.store.Save(ctx, key, values[key]); err != nil {
				return fmt.Errorf("save %s: %w", key, err)
			}
		}
	}
	s.cur = next
	return nil
}

// settle recomputes streaks over next's logs, awards xp (running the badge
// pass) and commits next together with the stats key.
func (s *Service) settle(ctx context.Context, next state, xp int, keys ...string) (Award, error) {
	now := s.now()
	metrics := ComputeStreaks(next.logs, next.profile.DailyWaterGoalML, now)
	var award Award
	next.stats, award = AwardXP(next.stats.withStreaks(metrics), xp, now)
	if err := s.commit(ctx, next, append(keys, KeyStats)...); err != nil {
		return Award{}, err
	}
	s.publishAward(award, now)
	return award, nil
}

func (s *Service) publishAward(a Award, at time.Time) {
	if s.events == nil {
		return
	}
	for _, u := range a.Unlocked {
		s.events.Publish(Event{Kind: EventBadgeUnlocked, At: at, Data: u})
	}
	if a.LeveledUp() {
		s.events.Publish(Event{Kind: EventLevelUp, At: at, Data: map[string]int{
			"level": a.LevelAfter, "previous_level": a.LevelBefore,
		}})
	}
}

func (st state) day(date string) DayLog {
	if l, ok := st.logs[date]; ok {
		return l.clone()
	}
	return emptyDayLog(date)
}

func checkDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return invalid("date must be YYYY-MM-DD")
	}
	return nil
}

/* ─── Day log mutations ──────────────────────────────────────────────── */

// putDay stores day with a recomputed summary and settles the change.
func (s *Service) putDay(ctx context.Context, day DayLog) (DayLog, error) {
	next := s.cur.clone()
	day.Summary = RecomputeSummary(day.Meals, day.Summary.WaterIntakeML)
	next.logs[day.Date] = day
	if _, err := s.settle(ctx, next, XPLogging, KeyDayLogs); err != nil {
		return DayLog{}, err
	}
	return day.clone(), nil
}

// AddMeal appends a meal to the day, creating the day log if needed.
func (s *Service) AddMeal(ctx context.Context, date string, in MealInput) (DayLog, error) {
	if err := checkDate(date); err != nil {
		return DayLog{}, err
	}
	if err := validateMeal(in); err != nil {
		return DayLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.cur.day(date)
	day.Meals = append(day.Meals, Meal{
		ID:        s.newID(),
		Type:      in.Type,
		UpdatedAt: s.now(),
		Items:     append([]MealItem(nil), in.Items...),
	})
	return s.putDay(ctx, day)
}

// EditMeal replaces the type and items of an existing meal.
func (s *Service) EditMeal(ctx context.Context, date, mealID string, in MealInput) (DayLog, error) {
	if err := checkDate(date); err != nil {
		return DayLog{}, err
	}
	if err := validateMeal(in); err != nil {
		return DayLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cur.logs[date]; !ok {
		return DayLog{}, ErrNotFound
	}
	day := s.cur.day(date)
	idx := findMeal(day.Meals, mealID)
	if idx < 0 {
		return DayLog{}, ErrNotFound
	}
	day.Meals[idx] = Meal{
		ID:        mealID,
		Type:      in.Type,
		UpdatedAt: s.now(),
		Items:     append([]MealItem(nil), in.Items...),
	}
	return s.putDay(ctx, day)
}

// DeleteMeal removes a meal from the day.
func (s *Service) DeleteMeal(ctx context.Context, date, mealID string) (DayLog, error) {
	if err := checkDate(date); err != nil {
		return DayLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cur.logs[date]; !ok {
		return DayLog{}, ErrNotFound
	}
	day := s.cur.day(date)
	idx := findMeal(day.Meals, mealID)
	if idx < 0 {
		return DayLog{}, ErrNotFound
	}
	day.Meals = append(day.Meals[:idx], day.Meals[idx+1:]...)
	return s.putDay(ctx, day)
}

func findMeal(meals []Meal, id string) int {
	for i, m := range meals {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// AdjustWater adds deltaML (may be negative) to the day's intake, never below 0.
func (s *Service) AdjustWater(ctx context.Context, date string, deltaML int) (DayLog, error) {
	if err := checkDate(date); err != nil {
		return DayLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.cur.day(date)
	day.Summary.WaterIntakeML = ApplyWaterDelta(day.Summary.WaterIntakeML, deltaML)
	return s.putDay(ctx, day)
}

// AddExercise logs a workout; calories are derived from the profile weight.
func (s *Service) AddExercise(ctx context.Context, date string, in ExerciseInput) (DayLog, error) {
	if err := checkDate(date); err != nil {
		return DayLog{}, err
	}
	if err := validateExercise(in); err != nil {
		return DayLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	weight := s.cur.profile.CurrentWeightKG
	if weight <= 0 {
		return DayLog{}, invalid("profile weight is unknown; complete onboarding first")
	}
	day := s.cur.day(date)
	day.Exercises = append(day.Exercises, Exercise{
		ID:              s.newID(),
		Name:            in.Name,
		DurationMinutes: in.DurationMinutes,
		MET:             in.MET,
		CaloriesBurned:  ExerciseCalories(in.MET, weight, in.DurationMinutes),
	})
	return s.putDay(ctx, day)
}

/* ─── Biometrics ─────────────────────────────────────────────────────── */

// AddOrUpdateBiometricEntry stores a measurement, replacing any entry on the
// same date. Unless confirmed is set, a weight change above MaxWeightChange
// returns a *WeightChangeWarning and nothing is stored. An entry dated today
// or later also becomes the profile's current weight.
func (s *Service) AddOrUpdateBiometricEntry(ctx context.Context, in BiometricInput, confirmed bool) (BiometricEntry, Award, error) {
	if err := ValidateBiometric(in); err != nil {
		return BiometricEntry{}, Award{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := NewBiometricEntry(s.newID(), in, s.cur.profile.HeightCM)
	if !confirmed {
		if w := CheckWeightChange(s.cur.biometrics, entry); w != nil {
			return BiometricEntry{}, Award{}, w
		}
	}

	next := s.cur.clone()
	next.biometrics = UpsertBiometric(next.biometrics, entry)
	for _, e := range next.biometrics {
		if e.Date == entry.Date {
			entry = e
			break
		}
	}
	keys := []string{KeyBiometrics}
	if entry.Date >= DateKey(s.now()) {
		next.profile.CurrentWeightKG = entry.Basics.WeightKG
		keys = append(keys, KeyProfile)
	}

	award, err := s.settle(ctx, next, XPBiometricEntry, keys...)
	if err != nil {
		return BiometricEntry{}, Award{}, err
	}
	return entry, award, nil
}

// DeleteBiometricEntry removes the entry with the given id.
func (s *Service) DeleteBiometricEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.clone()
	var found bool
	next.biometrics, found = RemoveBiometric(next.biometrics, id)
	if !found {
		return ErrNotFound
	}
	return s.commit(ctx, next, KeyBiometrics)
}

/* ─── Profile ────────────────────────────────────────────────────────── */

// withTargets recomputes BMR, calorie and water targets from p's anthropometry.
func withTargets(p Profile, now time.Time) Profile {
	birth, err := time.Parse(DateLayout, p.BirthDate)
	if err != nil || p.HeightCM <= 0 || p.CurrentWeightKG <= 0 {
		return p
	}
	p.Goal = GoalForTarget(p.CurrentWeightKG, p.TargetWeightKG)
	p.CalculatedBMR = BasalMetabolicRate(p.CurrentWeightKG, p.HeightCM, Age(birth, now), p.Sex)
	p.DailyKcalGoal = DailyCalorieTarget(p.CalculatedBMR, p.ActivityFactor, p.Goal)
	p.DailyWaterGoalML = WaterGoalML(p.CurrentWeightKG)
	return p
}

// CompleteOnboarding stores the questionnaire and its derived targets. The
// onboarding XP is awarded the first time only.
func (s *Service) CompleteOnboarding(ctx context.Context, in OnboardingInput) (Profile, Award, error) {
	now := s.now()
	if err := ValidateOnboarding(in, now); err != nil {
		return Profile{}, Award{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.clone()
	next.profile = withTargets(Profile{
		Name:                in.Name,
		Sex:                 in.Sex,
		BirthDate:           in.BirthDate,
		HeightCM:            in.HeightCM,
		CurrentWeightKG:     in.WeightKG,
		AbdominalCircCM:     in.AbdominalCircCM,
		TargetWeightKG:      in.TargetWeightKG,
		ActivityFactor:      in.ActivityFactor,
		OnboardingCompleted: true,
	}, now)

	xp := 0
	if !s.cur.profile.OnboardingCompleted {
		xp = XPOnboarding
	}
	award, err := s.settle(ctx, next, xp, KeyProfile)
	if err != nil {
		return Profile{}, Award{}, err
	}
	return next.profile, award, nil
}

// ProfilePatch carries optional profile changes; nil fields are left alone.
type ProfilePatch struct {
	Name             *string  `json:"name"`
	HeightCM         *float64 `json:"height_cm"`
	CurrentWeightKG  *float64 `json:"current_weight_kg"`
	TargetWeightKG   *float64 `json:"target_weight_kg"`
	ActivityFactor   *float64 `json:"activity_factor"`
	DailyKcalGoal    *int     `json:"daily_kcal_goal"`
	DailyWaterGoalML *int     `json:"daily_water_goal"`
}

// changesAnthropometry reports whether the patch touches an input of the
// derived targets.
func (p ProfilePatch) changesAnthropometry() bool {
	return p.HeightCM != nil || p.CurrentWeightKG != nil || p.TargetWeightKG != nil || p.ActivityFactor != nil
}

// UpdateProfile applies patch. Targets are recomputed only when an input of
// them changed, so earlier goal overrides survive other edits. Explicit goal
// overrides in patch are applied last. A changed water goal re-runs the
// streak and badge pipeline.
func (s *Service) UpdateProfile(ctx context.Context, patch ProfilePatch) (Profile, error) {
	if patch.HeightCM != nil {
		if err := validateHeight(*patch.HeightCM); err != nil {
			return Profile{}, err
		}
	}
	if patch.CurrentWeightKG != nil {
		if err := validateWeight(*patch.CurrentWeightKG); err != nil {
			return Profile{}, err
		}
	}
	if patch.TargetWeightKG != nil && *patch.TargetWeightKG < minWeightKG {
		return Profile{}, invalid("target weight must be at least %d kg", minWeightKG)
	}
	if patch.ActivityFactor != nil {
		if _, ok := ActivityFactors[*patch.ActivityFactor]; !ok {
			return Profile{}, invalid("activity_factor must be one of 1.2, 1.375, 1.55, 1.725")
		}
	}
	if patch.DailyKcalGoal != nil && *patch.DailyKcalGoal <= 0 {
		return Profile{}, invalid("daily_kcal_goal must be positive")
	}
	if patch.DailyWaterGoalML != nil && *patch.DailyWaterGoalML <= 0 {
		return Profile{}, invalid("daily_water_goal must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.clone()
	p := next.profile
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.HeightCM != nil {
		p.HeightCM = *patch.HeightCM
	}
	if patch.CurrentWeightKG != nil {
		p.CurrentWeightKG = *patch.CurrentWeightKG
	}
	if patch.TargetWeightKG != nil {
		p.TargetWeightKG = *patch.TargetWeightKG
	}
	if patch.ActivityFactor != nil {
		p.ActivityFactor = *patch.ActivityFactor
	}
	if patch.changesAnthropometry() {
		p = withTargets(p, s.now())
	}
	if patch.DailyKcalGoal != nil {
		p.DailyKcalGoal = *patch.DailyKcalGoal
	}
	if patch.DailyWaterGoalML != nil {
		p.DailyWaterGoalML = *patch.DailyWaterGoalML
	}
	next.profile = p

	if _, err := s.settle(ctx, next, 0, KeyProfile); err != nil {
		return Profile{}, err
	}
	return p, nil
}

/* ─── XP and challenges ──────────────────────────────────────────────── */

// AwardXP grants amount XP and runs the badge pass.
func (s *Service) AwardXP(ctx context.Context, amount int) (Stats, Award, error) {
	if amount < 0 {
		return Stats{}, Award{}, invalid("amount must not be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	award, err := s.settle(ctx, s.cur.clone(), amount)
	if err != nil {
		return Stats{}, Award{}, err
	}
	return s.cur.stats.clone(), award, nil
}

// AddChallenge creates an open challenge worth xpReward.
func (s *Service) AddChallenge(ctx context.Context, title string, xpReward int) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.clone()
	var (
		ch  Challenge
		err error
	)
	next.stats, ch, err = AddChallenge(next.stats, s.newID(), title, xpReward)
	if err != nil {
		return Challenge{}, err
	}
	if err := s.commit(ctx, next, KeyStats); err != nil {
		return Challenge{}, err
	}
	return ch, nil
}

// CompleteChallenge completes the challenge once and awards its XP. Unknown or
// already completed ids are a silent no-op (ok=false).
func (s *Service) CompleteChallenge(ctx context.Context, id string) (Award, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := s.cur.clone()
	metrics := ComputeStreaks(next.logs, next.profile.DailyWaterGoalML, now)
	stats, award, ok := CompleteChallenge(next.stats.withStreaks(metrics), id, now)
	if !ok {
		return Award{}, false, nil
	}
	next.stats = stats
	if err := s.commit(ctx, next, KeyStats); err != nil {
		return Award{}, false, err
	}
	if s.events != nil {
		s.events.Publish(Event{Kind: EventChallengeCompleted, At: now, Data: map[string]any{
			"id": id, "xp_reward": award.Amount,
		}})
	}
	s.publishAward(award, now)
	return award, true, nil
}

// DeleteChallenge removes a challenge; XP it awarded is kept.
func (s *Service) DeleteChallenge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.clone()
	before := len(next.stats.Challenges)
	next.stats = DeleteChallenge(next.stats, id)
	if len(next.stats.Challenges) == before {
		return nil
	}
	return s.commit(ctx, next, KeyStats)
}

/* ─── Analysis ───────────────────────────────────────────────────────── */

// AnalyzeMeal asks the analyzer for items and corrects their kcal. Nothing is
// stored: accepted items are committed later through AddMeal or EditMeal.
func (s *Service) AnalyzeMeal(ctx context.Context, in AnalysisInput) ([]MealItem, error) {
	if strings.TrimSpace(in.Text) == "" && in.ImageBase64 == "" {
		return nil, invalid("description or image_base64 is required")
	}
	if s.analyzer == nil {
		return nil, &AnalysisError{Op: "analyze", Err: errors.New("analyzer not configured")}
	}
	items, err := s.analyzer.Analyze(ctx, in)
	if err != nil {
		var ae *AnalysisError
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, &AnalysisError{Op: "analyze", Err: err}
	}
	return CorrectMacros(items), nil
}

/* ─── Readers ────────────────────────────────────────────────────────── */

// DayLog returns the log for date; ok=false when nothing was logged that day.
func (s *Service) DayLog(date string) (DayLog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.cur.logs[date]
	if !ok {
		return emptyDayLog(date), false
	}
	return l.clone(), true
}

// DayTotals returns the computed totals view for date against the profile budget.
func (s *Service) DayTotals(date string) DayTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeDayTotals(s.cur.day(date), s.cur.profile.DailyKcalGoal)
}

// WeekSummary returns the 7 days starting at weekStart.
func (s *Service) WeekSummary(weekStart time.Time) []DayTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WeekSummary(s.cur.logs, weekStart, s.cur.profile.DailyKcalGoal)
}

// Stats returns the stats with streaks recomputed for the current day.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics := ComputeStreaks(s.cur.logs, s.cur.profile.DailyWaterGoalML, s.now())
	return s.cur.stats.withStreaks(metrics)
}

// Biometrics returns the measurement history, newest first.
func (s *Service) Biometrics() []BiometricEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]BiometricEntry{}, s.cur.biometrics...)
}

func (s *Service) Profile() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.profile
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }
