package storage

import (
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      run_id,
                      start_time, 
                      name, 
                      config) 
VALUES (?, ?, ?, ?)`

	selectSessionSQL = `
SELECT 
    id, 
    run_id,
    start_time, 
    name, 
    config 
FROM sessions 
WHERE 
    id = ?`

	selectSessionsSQL = `
SELECT 
    id, 
    run_id,
    start_time, 
    name, 
    config 
FROM sessions
ORDER BY start_time, id`

	insertDispatchSQL = `
INSERT INTO dispatches (session_id,
                        timestamp,
                        scenario,
                        category,
                        worker,
                        sent,
                        observed,
                        matched,
                        elapsed_ns)
VALUES `

	dispatchValuesPlaceholder = "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
	dispatchColumns           = 9

	selectDispatchesSQL = `
SELECT 
    id,
    session_id,
    timestamp,
    scenario,
    category,
    worker,
    sent,
    observed,
    matched,
    elapsed_ns
FROM dispatches
WHERE 
    session_id = ?`

	selectSummarySQL = `
SELECT 
    category,
    COUNT(*),
    SUM(CASE WHEN matched THEN 0 ELSE 1 END),
    AVG(elapsed_ns)
FROM dispatches
WHERE 
    session_id = ?
GROUP BY category
ORDER BY category`
)

var (
	//go:embed schema.sql
	initSchemaSQL string

	//go:embed indexes.sql
	initIndexesSQL string
)
