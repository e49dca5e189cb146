package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Trigger events table - stores fired shoot and snap events
		`CREATE TABLE IF NOT EXISTS trigger_events (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL CHECK(kind IN ('shoot', 'snap')),
			frame_ts REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Actions table - stores actions to execute when triggers fire
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			trigger_kind TEXT NOT NULL CHECK(trigger_kind IN ('shoot', 'snap')),
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_trigger_events_kind ON trigger_events(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_trigger_events_created_at ON trigger_events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_trigger_kind ON actions(trigger_kind)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
