package sqldb

// Table creation is idempotent so it is safe on every boot. The two dialects
// only differ in key/auto-increment syntax.

var mysqlTables = []string{
	`CREATE TABLE IF NOT EXISTS person (
		id VARCHAR(128) PRIMARY KEY,
		handle VARCHAR(64) NOT NULL,
		avatar VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		UNIQUE KEY uniq_person_handle (handle)
	)`,
	`CREATE TABLE IF NOT EXISTS connection (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		requester_id VARCHAR(128) NOT NULL,
		recipient_id VARCHAR(128) NOT NULL,
		pair_key VARCHAR(260) NOT NULL,
		status VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE KEY uniq_connection_pair (pair_key),
		KEY idx_connection_requester (requester_id, status),
		KEY idx_connection_recipient (recipient_id, status)
	)`,
	`CREATE TABLE IF NOT EXISTS tag (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		owner_id VARCHAR(128) NOT NULL,
		name VARCHAR(64) NOT NULL,
		color_scheme VARCHAR(16) NOT NULL,
		custom_label VARCHAR(64) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		KEY idx_tag_owner (owner_id)
	)`,
	`CREATE TABLE IF NOT EXISTS connection_tag (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		connection_id BIGINT NOT NULL,
		tag_id BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE KEY uniq_connection_tag (connection_id, tag_id),
		KEY idx_connection_tag_tag (tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS post (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		author_id VARCHAR(128) NOT NULL,
		content TEXT NOT NULL,
		audience VARCHAR(16) NOT NULL,
		photo_urls TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		KEY idx_post_author_created (author_id, created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS post_audience_tag (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		post_id BIGINT NOT NULL,
		tag_id BIGINT NOT NULL,
		UNIQUE KEY uniq_post_audience_tag (post_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comment (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		post_id BIGINT NOT NULL,
		author_id VARCHAR(128) NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		KEY idx_comment_post (post_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reply (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		comment_id BIGINT NOT NULL,
		author_id VARCHAR(128) NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		KEY idx_reply_comment (comment_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reaction (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		post_id BIGINT NOT NULL,
		user_id VARCHAR(128) NOT NULL,
		emoji VARCHAR(32) NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE KEY uniq_reaction_post_user (post_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS notification (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		recipient_id VARCHAR(128) NOT NULL,
		actor_id VARCHAR(128) NOT NULL,
		post_id BIGINT NOT NULL,
		comment_id BIGINT NULL,
		type VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL,
		read_at DATETIME NULL,
		KEY idx_notification_recipient_read (recipient_id, read_at),
		KEY idx_notification_recipient_post (recipient_id, post_id),
		KEY idx_notification_recipient_comment (recipient_id, comment_id)
	)`,
}

var sqliteTables = []string{
	`CREATE TABLE IF NOT EXISTS person (
		id TEXT PRIMARY KEY,
		handle TEXT NOT NULL UNIQUE,
		avatar TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS connection (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		requester_id TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		pair_key TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (pair_key)
	)`,
	`CREATE TABLE IF NOT EXISTS tag (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color_scheme TEXT NOT NULL,
		custom_label TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS connection_tag (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		connection_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (connection_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS post (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id TEXT NOT NULL,
		content TEXT NOT NULL,
		audience TEXT NOT NULL,
		photo_urls TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post_audience_tag (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		UNIQUE (post_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comment (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL,
		author_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reply (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		comment_id INTEGER NOT NULL,
		author_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reaction (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL,
		user_id TEXT NOT NULL,
		emoji TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (post_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS notification (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipient_id TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		post_id INTEGER NOT NULL,
		comment_id INTEGER,
		type TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		read_at DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notification_recipient_read
		ON notification (recipient_id, read_at)`,
	`CREATE INDEX IF NOT EXISTS idx_post_author_created
		ON post (author_id, created_at)`,
}

func (s *SQLDB) migrate() error {
	tables := mysqlTables
	if s.dialect == DialectSQLite {
		tables = sqliteTables
	}
	for _, ddl := range tables {
		if _, err := s.sess.SQL().Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
