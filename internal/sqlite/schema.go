package sqlite

// Schema DDL for the catalog store. Column names are part of the on-disk
// format shared with existing livraria.db files and backups.
const (
	createLivros = `CREATE TABLE IF NOT EXISTS livros (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    titulo TEXT NOT NULL,
    autor TEXT NOT NULL,
    ano_publicacao INTEGER,
    preco REAL
);`
)

// Queries against the livros table.
const (
	insertBookSQL   = `INSERT INTO livros (titulo, autor, ano_publicacao, preco) VALUES (?, ?, ?, ?)`
	selectBooksSQL  = `SELECT id, titulo, autor, ano_publicacao, preco FROM livros ORDER BY id`
	searchAuthorSQL = `SELECT id, titulo, autor, ano_publicacao, preco FROM livros WHERE autor LIKE ? ORDER BY id`
	updatePriceSQL  = `UPDATE livros SET preco = ? WHERE id = ?`
	deleteBookSQL   = `DELETE FROM livros WHERE id = ?`
	countBooksSQL   = `SELECT COUNT(*) FROM livros`
)

// schemaDDL lists all statements EnsureSchema runs, in order.
var schemaDDL = []string{
	createLivros,
}
