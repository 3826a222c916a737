package migrations

import "embed"

// Migration files ship inside the binary so the CLIs can bootstrap a
// fresh database without an external schema step.

//go:embed postgres/*.sql
var PostgresFS embed.FS

//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
