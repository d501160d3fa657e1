package contestrepository

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	querybuilder "gitlab.com/fcv-2025.net/codearena/internal/utils"
)

func TestSearchMatchesWildcardsLiterally(t *testing.T) {
	is := is.New(t)

	query, args := applyFilter(
		querybuilder.NewQueryBuilder("public").Select("id").From("contests"),
		secondary.ContestFilter{IncludePrivate: true, Search: `100%_off\`},
	).Build()

	is.True(strings.Contains(query, `name ILIKE ? ESCAPE '\'`))
	is.True(strings.Contains(query, `description ILIKE ? ESCAPE '\'`))
	is.Equal(args, []interface{}{`%100\%\_off\\%`, `%100\%\_off\\%`})
}

func TestSearchPlainText(t *testing.T) {
	is := is.New(t)

	_, args := applyFilter(
		querybuilder.NewQueryBuilder("public").Select("id").From("contests"),
		secondary.ContestFilter{Search: "sprint"},
	).Build()

	is.Equal(args, []interface{}{true, "%sprint%", "%sprint%"})
}
