package sqlite

// Table names.
const (
	tableCategory = "category"
	tableEntity   = "entity"
	tableState    = "state"
	tableFrame    = "frame"
)

// Schema DDL. Every statement is create-if-absent so opening an existing
// project file leaves its schema untouched.
const (
	createCategory = `CREATE TABLE IF NOT EXISTS category (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0
);`

	createEntity = `CREATE TABLE IF NOT EXISTS entity (
    id INTEGER PRIMARY KEY,
    category_id INTEGER NOT NULL,
    name TEXT NOT NULL UNIQUE,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (category_id) REFERENCES category(id) ON DELETE RESTRICT
);`

	createState = `CREATE TABLE IF NOT EXISTS state (
    id INTEGER PRIMARY KEY,
    entity_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    UNIQUE (entity_id, name),
    FOREIGN KEY (entity_id) REFERENCES entity(id) ON DELETE CASCADE
);`

	createFrame = `CREATE TABLE IF NOT EXISTS frame (
    id INTEGER PRIMARY KEY,
    state_id INTEGER NOT NULL,
    seq INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    img BLOB NOT NULL,
    UNIQUE (state_id, seq),
    FOREIGN KEY (state_id) REFERENCES state(id) ON DELETE CASCADE
);`
)

// Index DDL for the foreign-key columns.
const (
	idxEntityCategory = `CREATE INDEX IF NOT EXISTS idx_entity_category ON entity(category_id);`
	idxStateEntity    = `CREATE INDEX IF NOT EXISTS idx_state_entity ON state(entity_id);`
)

// schemaDDL lists all CREATE statements in dependency order: parents before
// children, tables before their indexes.
var schemaDDL = []string{
	createCategory,
	createEntity,
	createState,
	createFrame,
	idxEntityCategory,
	idxStateEntity,
}

// clearOrder lists the tables children first, the order Save empties them in.
var clearOrder = []string{
	tableFrame,
	tableState,
	tableEntity,
	tableCategory,
}
