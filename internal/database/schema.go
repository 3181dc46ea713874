package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the DDL statements that bootstrap the database.  Every
// statement is idempotent so Migrate can run on every startup.  Policy
// status is deliberately absent from the policies table: it is derived
// from expiration_date on read and never persisted.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS agents (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		name       VARCHAR(120) NOT NULL,
		company    VARCHAR(160) NOT NULL,
		email      VARCHAR(190) NOT NULL,
		phone      VARCHAR(40)  NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS buildings (
		id               CHAR(36)     NOT NULL PRIMARY KEY,
		name             VARCHAR(160) NOT NULL,
		address          VARCHAR(255) NOT NULL,
		notes            TEXT,
		primary_agent_id CHAR(36) NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_buildings_agent (primary_agent_id)
	)`,
	`CREATE TABLE IF NOT EXISTS policies (
		id               CHAR(36)     NOT NULL PRIMARY KEY,
		building_id      CHAR(36)     NOT NULL,
		agent_id         CHAR(36)     NOT NULL,
		coverage_type    VARCHAR(40)  NOT NULL,
		policy_number    VARCHAR(80)  NOT NULL,
		carrier          VARCHAR(160) NOT NULL,
		effective_date   DATE         NOT NULL,
		expiration_date  DATE         NOT NULL,
		limits_json      TEXT,
		deductibles_json TEXT,
		premium_annual   DOUBLE       NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_policies_building (building_id),
		KEY idx_policies_agent (agent_id),
		KEY idx_policies_expiration (expiration_date)
	)`,
	`CREATE TABLE IF NOT EXISTS policy_files (
		id                   CHAR(36)     NOT NULL PRIMARY KEY,
		policy_id            CHAR(36) NULL,
		building_id          CHAR(36) NULL,
		filename             VARCHAR(255) NOT NULL,
		original_filename    VARCHAR(255) NOT NULL,
		file_path            VARCHAR(500) NOT NULL,
		file_size            BIGINT       NOT NULL DEFAULT 0,
		content_type         VARCHAR(120),
		parsed_text          MEDIUMTEXT,
		parsed_metadata_json TEXT,
		confidence_score     DOUBLE NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_files_policy (policy_id)
	)`,
	`CREATE TABLE IF NOT EXISTS policy_history (
		id         CHAR(36) NOT NULL PRIMARY KEY,
		policy_id  CHAR(36) NOT NULL,
		note       TEXT,
		file_id    CHAR(36) NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_history_policy (policy_id)
	)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id         CHAR(36)    NOT NULL PRIMARY KEY,
		policy_id  CHAR(36)    NOT NULL,
		alert_type VARCHAR(40) NOT NULL,
		message    TEXT        NOT NULL,
		priority   VARCHAR(10) NOT NULL,
		is_read    TINYINT(1)  NOT NULL DEFAULT 0,
		is_sent    TINYINT(1)  NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_alerts_policy (policy_id),
		KEY idx_alerts_read (is_read)
	)`,
	`CREATE TABLE IF NOT EXISTS claims (
		id           CHAR(36)    NOT NULL PRIMARY KEY,
		policy_id    CHAR(36)    NOT NULL,
		claim_number VARCHAR(80) NOT NULL,
		date         DATE NULL,
		amount       DOUBLE      NOT NULL DEFAULT 0,
		status       VARCHAR(20) NOT NULL DEFAULT 'open',
		note         TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_claims_policy (policy_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(190) NOT NULL UNIQUE,
		password_hash VARCHAR(100) NOT NULL,
		role          VARCHAR(20)  NOT NULL DEFAULT 'STAFF',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)  NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		revoked_at TIMESTAMP NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_tokens_hash (token_hash),
		KEY idx_tokens_user (user_id)
	)`,
}

// Migrate creates any missing tables.  It is safe to run on every
// startup; existing tables are left untouched.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
