package celebrity

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// buildWhere renders the shared person filters against the given name column.
func buildWhere(p ListParams, nameCol string) (string, []interface{}) {
	var where []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if p.Search != "" {
		cond := nameCol + " ILIKE " + arg("%"+p.Search+"%")
		if tmdb, err := strconv.Atoi(p.Search); err == nil {
			cond = "(" + cond + " OR tmdb_id = " + arg(tmdb) + ")"
		}
		where = append(where, cond)
	}
	if p.Popularity != nil {
		where = append(where, "popularity = "+arg(*p.Popularity))
	}
	if p.PopularityGte != nil {
		where = append(where, "popularity >= "+arg(*p.PopularityGte))
	}
	if p.PopularityLte != nil {
		where = append(where, "popularity <= "+arg(*p.PopularityLte))
	}
	if p.MovieCount != nil {
		where = append(where, "movie_count = "+arg(*p.MovieCount))
	}
	if p.MovieCountGte != nil {
		where = append(where, "movie_count >= "+arg(*p.MovieCountGte))
	}
	if p.MovieCountLte != nil {
		where = append(where, "movie_count <= "+arg(*p.MovieCountLte))
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func orderClause(ordering, nameCol string) string {
	dir := "ASC"
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		dir = "DESC"
		field = ordering[1:]
	}
	cols := map[string]string{
		"name":        nameCol,
		"popularity":  "popularity",
		"movie_count": "movie_count",
	}
	if col, ok := cols[field]; ok {
		return fmt.Sprintf(" ORDER BY %s %s NULLS LAST", col, dir)
	}
	return " ORDER BY popularity DESC NULLS LAST"
}

func (r *Repository) ListActors(p ListParams) ([]Actor, error) {
	where, args := buildWhere(p, "name")
	rows, err := r.db.Query(
		"SELECT id, name, poster, tmdb_id, popularity, movie_count FROM actors"+
			where+orderClause(p.Ordering, "name"), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Actor
	for rows.Next() {
		var a Actor
		if err := rows.Scan(&a.ID, &a.Name, &a.Poster, &a.TMDBID, &a.Popularity, &a.MovieCount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) GetActor(id int64) (*Actor, error) {
	a := &Actor{}
	err := r.db.QueryRow(
		"SELECT id, name, poster, tmdb_id, popularity, movie_count FROM actors WHERE id=$1", id,
	).Scan(&a.ID, &a.Name, &a.Poster, &a.TMDBID, &a.Popularity, &a.MovieCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) CreateActor(a *Actor) error {
	return r.db.QueryRow(`
		INSERT INTO actors (name, poster, tmdb_id, popularity, movie_count)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		a.Name, a.Poster, a.TMDBID, a.Popularity, a.MovieCount,
	).Scan(&a.ID)
}

func (r *Repository) ListDirectors(p ListParams) ([]Director, error) {
	where, args := buildWhere(p, "full_name")
	rows, err := r.db.Query(
		"SELECT id, full_name, poster, tmdb_id, popularity, movie_count FROM directors"+
			where+orderClause(p.Ordering, "full_name"), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Director
	for rows.Next() {
		var d Director
		if err := rows.Scan(&d.ID, &d.FullName, &d.Poster, &d.TMDBID, &d.Popularity, &d.MovieCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) GetDirector(id int64) (*Director, error) {
	d := &Director{}
	err := r.db.QueryRow(
		"SELECT id, full_name, poster, tmdb_id, popularity, movie_count FROM directors WHERE id=$1", id,
	).Scan(&d.ID, &d.FullName, &d.Poster, &d.TMDBID, &d.Popularity, &d.MovieCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Repository) CreateDirector(d *Director) error {
	return r.db.QueryRow(`
		INSERT INTO directors (full_name, poster, tmdb_id, popularity, movie_count)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		d.FullName, d.Poster, d.TMDBID, d.Popularity, d.MovieCount,
	).Scan(&d.ID)
}
