package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/luigi970/Signal-Hunter/internal/hunter"
)

// Store persists completed pipeline runs and owner profiles using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new SQLite-backed persistence store at the given path
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the necessary tables if they don't exist
func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id            TEXT PRIMARY KEY,
			first_name    TEXT NOT NULL DEFAULT '',
			last_name     TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL DEFAULT '',
			credits_used  INTEGER NOT NULL DEFAULT 0,
			is_pro        INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS searches (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL,
			user_query  TEXT NOT NULL,
			created_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS opportunities (
			id               TEXT PRIMARY KEY,
			search_id        TEXT NOT NULL,
			problem_title    TEXT NOT NULL,
			pain_score       REAL NOT NULL,
			frequency_score  REAL NOT NULL,
			evidence_quote   TEXT,
			solution_title   TEXT,
			solution_pitch   TEXT,
			solution_type    TEXT,
			category         TEXT NOT NULL,
			FOREIGN KEY (search_id) REFERENCES searches(id)
		);

		CREATE TABLE IF NOT EXISTS grounding_sources (
			search_id  TEXT NOT NULL,
			uri        TEXT NOT NULL,
			title      TEXT,
			FOREIGN KEY (search_id) REFERENCES searches(id)
		);

		CREATE INDEX IF NOT EXISTS idx_searches_owner ON searches(owner_id);
		CREATE INDEX IF NOT EXISTS idx_opportunities_search ON opportunities(search_id);
		CREATE INDEX IF NOT EXISTS idx_sources_search ON grounding_sources(search_id);
	`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureProfile returns the profile for ownerID, creating an empty row first
// if none exists.
func (s *Store) EnsureProfile(ownerID string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO profiles (id) VALUES (?)
		ON CONFLICT(id) DO NOTHING
	`, ownerID)
	if err != nil {
		return nil, err
	}

	return s.getProfileInternal(ownerID)
}

// GetProfile returns the profile for ownerID, or sql.ErrNoRows.
func (s *Store) GetProfile(ownerID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getProfileInternal(ownerID)
}

func (s *Store) getProfileInternal(ownerID string) (*Profile, error) {
	row := s.db.QueryRow(`
		SELECT id, first_name, last_name, email, credits_used, is_pro
		FROM profiles
		WHERE id = ?
	`, ownerID)

	var p Profile
	var isPro int
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.CreditsUsed, &isPro); err != nil {
		return nil, err
	}
	p.IsPro = isPro != 0
	return &p, nil
}

// SaveRun persists one completed run in a single transaction: the search
// record, its opportunity rows, its grounding sources and the owner's
// usage-counter increment commit or roll back together, so a partial failure
// cannot leave an orphaned search record.
func (s *Store) SaveRun(ownerID string, result *hunter.SearchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO profiles (id) VALUES (?)
		ON CONFLICT(id) DO NOTHING
	`, ownerID); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO searches (id, owner_id, user_query, created_at)
		VALUES (?, ?, ?, ?)
	`, result.ID, ownerID, result.Query, result.Timestamp.Format(time.RFC3339)); err != nil {
		return err
	}

	for _, p := range result.Problems {
		if _, err := tx.Exec(`
			INSERT INTO opportunities (
				id, search_id, problem_title, pain_score, frequency_score,
				evidence_quote, solution_title, solution_pitch, solution_type, category
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, result.ID, p.Title, p.PainScore, p.FrequencyScore,
			p.Evidence, p.SolutionIdea.Title, p.SolutionIdea.Pitch, p.SolutionIdea.Type,
			string(p.Category)); err != nil {
			return err
		}
	}

	for _, src := range result.GroundingSources {
		if _, err := tx.Exec(`
			INSERT INTO grounding_sources (search_id, uri, title)
			VALUES (?, ?, ?)
		`, result.ID, src.URI, src.Title); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		UPDATE profiles SET credits_used = credits_used + 1 WHERE id = ?
	`, ownerID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListSearches returns the owner's persisted runs, newest first, with their
// opportunities and grounding sources rehydrated.
func (s *Store) ListSearches(ownerID string) ([]hunter.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, user_query, created_at
		FROM searches
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []hunter.SearchResult
	for rows.Next() {
		var r hunter.SearchResult
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Query, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.Timestamp = t
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		problems, err := s.getOpportunitiesInternal(results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Problems = problems

		sources, err := s.getSourcesInternal(results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].GroundingSources = sources
	}

	return results, nil
}

func (s *Store) getOpportunitiesInternal(searchID string) ([]hunter.Problem, error) {
	rows, err := s.db.Query(`
		SELECT id, problem_title, pain_score, frequency_score,
		       evidence_quote, solution_title, solution_pitch, solution_type, category
		FROM opportunities
		WHERE search_id = ?
	`, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	problems := []hunter.Problem{}
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

func scanProblem(sc scanner) (hunter.Problem, error) {
	var p hunter.Problem
	var evidence, solTitle, solPitch, solType sql.NullString
	var category string

	err := sc.Scan(&p.ID, &p.Title, &p.PainScore, &p.FrequencyScore,
		&evidence, &solTitle, &solPitch, &solType, &category)
	if err != nil {
		return p, err
	}

	p.Evidence = evidence.String
	p.Category = hunter.Category(category)
	p.SolutionIdea = hunter.SolutionIdea{
		Title: solTitle.String,
		Pitch: solPitch.String,
		Type:  solType.String,
	}
	return p, nil
}

func (s *Store) getSourcesInternal(searchID string) ([]hunter.GroundingSource, error) {
	rows, err := s.db.Query(`
		SELECT uri, title
		FROM grounding_sources
		WHERE search_id = ?
	`, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := []hunter.GroundingSource{}
	for rows.Next() {
		var src hunter.GroundingSource
		var title sql.NullString
		if err := rows.Scan(&src.URI, &title); err != nil {
			return nil, err
		}
		src.Title = title.String
		sources = append(sources, src)
	}
	return sources, rows.Err()
}
