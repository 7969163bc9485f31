package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"client-insights/pkg/models"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Tables par défaut.
const (
	InteractionsTable = "ClientInteraction"
	ProfilesTable     = "ClientProfile"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Open DSN mariadb://, mysql:// ou sqlite:// → driver + DSN natif.
// Tout autre DSN est passé tel quel au driver MySQL.
func Open(dsn string) (*sql.DB, string, error) {
	if strings.HasPrefix(dsn, "sqlite://") {
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			return nil, "", fmt.Errorf("dsn sqlite sans chemin")
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, "", err
		}
		// SQLite : un seul écrivain.
		db.SetMaxOpenConns(1)
		return db, path, nil
	}

	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("dsn incomplet (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// Repository implémente les dépôts d'interactions et de profils sur SQL (MySQL ou SQLite).
// Lecture seule côté moteur ; Insert* sert à l'import et aux tests.
type Repository struct {
	db           *sql.DB
	interactions string
	profiles     string
}

// NewRepository valide les noms de tables (interpolés dans le SQL).
func NewRepository(db *sql.DB, interactionsTable, profilesTable string) (*Repository, error) {
	for _, t := range []string{interactionsTable, profilesTable} {
		if !tableNameRe.MatchString(t) {
			return nil, fmt.Errorf("table invalide: %q", t)
		}
	}
	return &Repository{db: db, interactions: interactionsTable, profiles: profilesTable}, nil
}

// EnsureSchema crée les tables si besoin. DDL compatible MySQL et SQLite.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			ID        BIGINT PRIMARY KEY,
			ClientID  VARCHAR(64) NOT NULL,
			Type      VARCHAR(32) NOT NULL,
			EventDate DATETIME NOT NULL,
			Value     DOUBLE NULL,
			Details   TEXT NULL,
			Source    VARCHAR(64) NULL,
			Service   VARCHAR(128) NULL,
			Barber    VARCHAR(128) NULL
		)`, r.interactions),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			ClientID  VARCHAR(64) PRIMARY KEY,
			BirthDate DATETIME NULL,
			CreatedAt DATETIME NOT NULL
		)`, r.profiles),
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) selectInteractions() string {
	return fmt.Sprintf(`
		SELECT ID, ClientID, Type, EventDate, Value,
			COALESCE(Details, ''), COALESCE(Source, ''), COALESCE(Service, ''), COALESCE(Barber, '')
		FROM %s`, r.interactions)
}

// GetInteractions : interactions d'un client, triées par ID.
func (r *Repository) GetInteractions(ctx context.Context, clientID string) ([]models.Interaction, error) {
	q := r.selectInteractions() + ` WHERE ClientID = ? ORDER BY ID`
	return r.queryInteractions(ctx, q, clientID)
}

// GetAllInteractions : toutes les interactions, triées par ID.
func (r *Repository) GetAllInteractions(ctx context.Context) ([]models.Interaction, error) {
	return r.queryInteractions(ctx, r.selectInteractions()+` ORDER BY ID`)
}

func (r *Repository) queryInteractions(ctx context.Context, q string, args ...any) ([]models.Interaction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Interaction
	for rows.Next() {
		var (
			it    models.Interaction
			typ   string
			value sql.NullFloat64
		)
		if err := rows.Scan(&it.ID, &it.ClientID, &typ, &it.Date, &value,
			&it.Details, &it.Source, &it.Service, &it.Barber); err != nil {
			return nil, err
		}
		it.Type = models.InteractionType(typ)
		it.Date = it.Date.UTC()
		if value.Valid {
			v := value.Float64
			it.Value = &v
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProfile : profil d'un client ; models.ErrNotFound si inconnu.
func (r *Repository) GetProfile(ctx context.Context, clientID string) (models.ClientProfile, error) {
	q := fmt.Sprintf(`SELECT ClientID, BirthDate, CreatedAt FROM %s WHERE ClientID = ?`, r.profiles)
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, clientID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ClientProfile{}, fmt.Errorf("%s: %w", clientID, models.ErrNotFound)
	}
	return p, err
}

// ListProfiles : tous les profils, triés par identifiant.
func (r *Repository) ListProfiles(ctx context.Context) ([]models.ClientProfile, error) {
	q := fmt.Sprintf(`SELECT ClientID, BirthDate, CreatedAt FROM %s ORDER BY ClientID`, r.profiles)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ClientProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (models.ClientProfile, error) {
	var (
		p     models.ClientProfile
		birth sql.NullTime
	)
	if err := s.Scan(&p.ID, &birth, &p.CreatedAt); err != nil {
		return models.ClientProfile{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	if birth.Valid {
		b := birth.Time.UTC()
		p.BirthDate = &b
	}
	return p, nil
}

// InsertInteraction enregistre une interaction (ID fourni par l'appelant).
func (r *Repository) InsertInteraction(ctx context.Context, it models.Interaction) error {
	if !it.Type.Valid() {
		return fmt.Errorf("type d'interaction invalide: %q", it.Type)
	}
	q := fmt.Sprintf(`
		INSERT INTO %s (ID, ClientID, Type, EventDate, Value, Details, Source, Service, Barber)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.interactions)
	var value sql.NullFloat64
	if it.Value != nil {
		value = sql.NullFloat64{Float64: *it.Value, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q, it.ID, it.ClientID, string(it.Type), it.Date.UTC(), value,
		nullString(it.Details), nullString(it.Source), nullString(it.Service), nullString(it.Barber))
	if err != nil {
		return fmt.Errorf("insert interaction %d: %w", it.ID, err)
	}
	return nil
}

// InsertProfile enregistre un profil client.
func (r *Repository) InsertProfile(ctx context.Context, p models.ClientProfile) error {
	q := fmt.Sprintf(`INSERT INTO %s (ClientID, BirthDate, CreatedAt) VALUES (?, ?, ?)`, r.profiles)
	var birth sql.NullTime
	if p.BirthDate != nil {
		birth = sql.NullTime{Time: p.BirthDate.UTC(), Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, q, p.ID, birth, p.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert profile %s: %w", p.ID, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
