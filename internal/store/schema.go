package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    sheet                TEXT NOT NULL DEFAULT '',
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    header_row           INTEGER NOT NULL,
    considered           INTEGER NOT NULL,
    missing_fields       INTEGER NOT NULL,
    promotional          INTEGER NOT NULL,
    bad_price            INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS catalog_items (
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    code                 TEXT NOT NULL,
    name                 TEXT NOT NULL,
    unit_price           TEXT NOT NULL,
    PRIMARY KEY (file_path, position)
);

CREATE INDEX IF NOT EXISTS idx_catalog_items_code ON catalog_items(code);
`
