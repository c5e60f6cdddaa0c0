// seed_admin genera el script SQL que da de alta (o actualiza) el usuario
// administrador inicial, con la contraseña ya hasheada con bcrypt.
//
// Uso: go run ./cmd/seed_admin <email> <password> [username]
// Escribe: internal/infrastructure/postgres/migrations/002_seed_admin.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Uso: seed_admin <email> <password> [username]")
		os.Exit(1)
	}
	email := strings.TrimSpace(os.Args[1])
	password := os.Args[2]
	username := "admin"
	if len(os.Args) > 3 {
		username = strings.TrimSpace(os.Args[3])
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "La contraseña debe tener al menos 8 caracteres")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hashear contraseña: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_admin.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Usuario administrador inicial\n")
	out.WriteString("-- Generado con cmd/seed_admin\n\n")
	fmt.Fprintf(out, "INSERT INTO users (id, username, email, password_hash, role) VALUES\n")
	fmt.Fprintf(out, "  ('%s', '%s', '%s', '%s', 'admin')\n",
		uuid.NewString(), escapeSQL(username), escapeSQL(email), string(hash))
	out.WriteString("ON CONFLICT (email) DO UPDATE SET\n")
	out.WriteString("  username = EXCLUDED.username,\n")
	out.WriteString("  password_hash = EXCLUDED.password_hash,\n")
	out.WriteString("  role = 'admin';\n")

	fmt.Printf("Generado %s para %s\n", outPath, email)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
