package querybuilder

import (
	"testing"

	"github.com/matryer/is"
)

func TestBuildSelect(t *testing.T) {
	is := is.New(t)

	query, args := NewQueryBuilder("public").
		Select("id", "name").
		From("contests").
		Where("is_public = ?", true).
		AndGroup(func(qb QueryBuilder) {
			qb.Where("name ILIKE ?", "%go%").Or("description ILIKE ?", "%go%")
		}).
		OrderBy("start_time", false).
		Limit(10).
		Offset(20).
		Build()

	is.Equal(query, "SELECT id, name FROM public.contests WHERE is_public = ? AND (name ILIKE ? OR description ILIKE ?) ORDER BY start_time DESC LIMIT ? OFFSET ?")
	is.Equal(args, []interface{}{true, "%go%", "%go%", 10, 20})
}

func TestBuildSelectEmptyGroupSkipped(t *testing.T) {
	is := is.New(t)

	query, args := NewQueryBuilder("public").
		Select("id").
		From("contests").
		AndGroup(func(qb QueryBuilder) {}).
		Build()

	is.Equal(query, "SELECT id FROM public.contests")
	is.Equal(len(args), 0)
}

func TestBuildInsertOnConflict(t *testing.T) {
	is := is.New(t)

	query, args := NewQueryBuilder("public").
		Insert("name", "judge_language_id").
		Into("languages").
		Values("go", 60).
		Values("cpp", 54).
		OnConflict("name").
		SetExclude("judge_language_id").
		Build()

	is.Equal(query, "INSERT INTO public.languages (name, judge_language_id) VALUES (?, ?), (?, ?) ON CONFLICT (name) DO UPDATE SET judge_language_id = EXCLUDED.judge_language_id")
	is.Equal(args, []interface{}{"go", 60, "cpp", 54})
}

func TestBuildInsertMismatchedRow(t *testing.T) {
	is := is.New(t)

	query, _ := NewQueryBuilder("public").
		Insert("a", "b").
		Into("t").
		Values(1).
		Build()

	is.Equal(query, "")
}

func TestBuildUpdateSortsColumns(t *testing.T) {
	is := is.New(t)

	query, args := NewQueryBuilder("public").
		Update("contests", UpdateData{"status": "live", "name": "x"}).
		Where("id = ?", 7).
		Returning("version").
		Build()

	is.Equal(query, "UPDATE public.contests SET name = ?, status = ? WHERE id = ? RETURNING version")
	is.Equal(args, []interface{}{"x", "live", 7})
}

func TestBuildDelete(t *testing.T) {
	is := is.New(t)

	query, args := NewQueryBuilder("public").
		Delete("submissions").
		Where("contest_id = ?", "c1").
		Build()
	is.Equal(query, "DELETE FROM public.submissions WHERE contest_id = ?")
	is.Equal(args, []interface{}{"c1"})

	query, _ = NewQueryBuilder("public").Delete("submissions").Build()
	is.Equal(query, "") // unconditioned delete refused
}
