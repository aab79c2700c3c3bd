package mysql

const insertLandlordSQL = `
INSERT INTO landlords
  (id, name, entity, street, unit, city, state, region, lat, lon, is_verified, is_top, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Reviews are append-only: a duplicate id is a caller bug, not an upsert.
const insertReviewSQL = `
INSERT INTO reviews
  (id, landlord_id, stars, body, created_at)
VALUES
  (?, ?, ?, ?, ?)
`

const upsertReportSQL = `
INSERT INTO reports
  (landlord_id, updated_at, violations, open_violations, complaints, litigations, evictions, notes)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  updated_at      = VALUES(updated_at),
  violations      = VALUES(violations),
  open_violations = VALUES(open_violations),
  complaints      = VALUES(complaints),
  litigations     = VALUES(litigations),
  evictions       = VALUES(evictions),
  notes           = COALESCE(VALUES(notes), reports.notes)
`

const insertMissSQL = `
INSERT INTO ingest_misses (landlord_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const landlordColumns = `
  id, name, entity, street, unit, city, state, region, lat, lon, is_verified, is_top, created_at
`

const getLandlordSQL = `SELECT` + landlordColumns + `FROM landlords WHERE id = ?`

const listLandlordsSQL = `SELECT` + landlordColumns + `FROM landlords`

// Newest first; matches idx_reviews_landlord_created.
const listReviewsSQL = `
SELECT id, landlord_id, stars, body, created_at
FROM reviews
WHERE landlord_id = ?
ORDER BY created_at DESC, id DESC
`

const getReportSQL = `
SELECT landlord_id, updated_at, violations, open_violations, complaints, litigations, evictions, notes
FROM reports
WHERE landlord_id = ?
`
