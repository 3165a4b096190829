package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Bootstrap creates the catalog, config and admin tables and seeds the first admin user.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, s.Dialect.SchemaSQL()); err != nil {
		return fmt.Errorf("bootstrap tables: %w", err)
	}
	if err := s.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}

func (s *Store) seedAdminUser(ctx context.Context) error {
	var count int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_user").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	pb := s.Dialect.NewParamBuilder()
	sql := fmt.Sprintf("INSERT INTO admin_user (id, email, password_hash, roles) VALUES (%s, %s, %s, %s)",
		pb.Add(uuid.New().String()), pb.Add("admin@localhost"), pb.Add(string(hashBytes)),
		pb.Add(s.Dialect.ArrayParam([]string{"admin"})))
	if _, err := Exec(ctx, s.DB, sql, pb.Params()...); err != nil {
		return err
	}

	log.Warn("Default admin user created (admin@localhost / changeme), change the password immediately")
	return nil
}
