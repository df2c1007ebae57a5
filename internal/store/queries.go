package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// Listing queries.
const (
	queryUpsertListing = `
		INSERT INTO listings (
			source_ref, title, price, bedrooms, bathrooms, area,
			city, district, address, status, type, created_at
		) VALUES (
			@source_ref, @title, @price, @bedrooms, @bathrooms, @area,
			@city, @district, @address, @status, @type,
			COALESCE(@created_at, now())
		)
		ON CONFLICT (source_ref) DO NOTHING
		RETURNING id, created_at`

	queryGetListingBySourceRef = `
		SELECT id, source_ref, title, price, bedrooms, bathrooms, area,
			city, district, address, status, type, created_at
		FROM listings
		WHERE source_ref = $1`

	queryGetListingByID = `
		SELECT id, source_ref, title, price, bedrooms, bathrooms, area,
			city, district, address, status, type, created_at
		FROM listings
		WHERE id = $1`

	queryListListingsSince = `
		SELECT id, source_ref, title, price, bedrooms, bathrooms, area,
			city, district, address, status, type, created_at
		FROM listings
		WHERE created_at >= $1
		ORDER BY created_at DESC`
)

// Alert queries. Active alerts are joined with the owning profile so the
// matching run gets the push token in the same fetch.
const (
	queryCreateAlert = `
		INSERT INTO alerts (user_id, name, filters, is_active)
		VALUES (@user_id, @name, @filters, @is_active)
		RETURNING id, created_at, updated_at`

	queryGetAlert = `
		SELECT a.id, a.user_id, a.name, a.filters, a.is_active,
			a.last_notification_at, a.last_notification_count,
			COALESCE(p.push_token, ''), a.created_at, a.updated_at
		FROM alerts a
		LEFT JOIN profiles p ON p.user_id = a.user_id
		WHERE a.id = $1`

	queryListAlertsByUser = `
		SELECT a.id, a.user_id, a.name, a.filters, a.is_active,
			a.last_notification_at, a.last_notification_count,
			COALESCE(p.push_token, ''), a.created_at, a.updated_at
		FROM alerts a
		LEFT JOIN profiles p ON p.user_id = a.user_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC`

	queryListActiveAlerts = `
		SELECT a.id, a.user_id, a.name, a.filters, a.is_active,
			a.last_notification_at, a.last_notification_count,
			COALESCE(p.push_token, ''), a.created_at, a.updated_at
		FROM alerts a
		LEFT JOIN profiles p ON p.user_id = a.user_id
		WHERE a.is_active
		ORDER BY a.created_at`

	queryUpdateAlert = `
		UPDATE alerts SET
			name       = @name,
			filters    = @filters,
			is_active  = @is_active,
			updated_at = now()
		WHERE id = @id`

	queryDeleteAlert = `
		DELETE FROM alerts WHERE id = $1`

	querySetAlertActive = `
		UPDATE alerts SET is_active = $2, updated_at = now() WHERE id = $1`

	queryUpdateAlertNotification = `
		UPDATE alerts SET
			last_notification_at    = $2,
			last_notification_count = $3,
			updated_at              = now()
		WHERE id = $1`
)

// Profile queries.
const (
	queryUpsertPushToken = `
		INSERT INTO profiles (user_id, push_token)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			push_token = EXCLUDED.push_token,
			updated_at = now()`
)

// Match run queries.
const (
	queryInsertMatchRun = `
		INSERT INTO match_runs (status)
		VALUES ('running')
		RETURNING id`

	queryCompleteMatchRun = `
		UPDATE match_runs SET
			completed_at            = now(),
			status                  = $2,
			error_text              = $3,
			alerts_processed        = $4,
			listings_checked        = $5,
			notifications_generated = $6
		WHERE id = $1`

	queryListMatchRuns = `
		SELECT id, started_at, completed_at, status, COALESCE(error_text, ''),
			alerts_processed, listings_checked, notifications_generated
		FROM match_runs
		ORDER BY started_at DESC
		LIMIT $1`

	queryLastSuccessfulRunStart = `
		SELECT started_at
		FROM match_runs
		WHERE status = 'succeeded'
		ORDER BY started_at DESC
		LIMIT 1`

	queryAcquireRunLock = `
		INSERT INTO run_locks (name, lock_holder, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
			SET locked_at   = now(),
				lock_holder = EXCLUDED.lock_holder,
				expires_at  = EXCLUDED.expires_at
			WHERE run_locks.expires_at < now()
		RETURNING name`

	queryReleaseRunLock = `
		DELETE FROM run_locks WHERE name = $1 AND lock_holder = $2`
)
