package catalog

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
)

const dataset = `annee,marque,modele,etat,prix
2015,Renault,Clio,Bon,95000
2018,Renault,Megane,Excellent,150000
2016,Renault,Clio,Moyen,80000
2012,Dacia,Logan,Bon,60000
`

func TestBuild(t *testing.T) {
	listings, err := ReadCSV(strings.NewReader(dataset))
	require.NoError(t, err)
	require.Len(t, listings, 4)

	c := Build(listings)

	tests := []struct {
		name     string
		make     string
		expected []string
	}{
		{name: "Renault", make: "Renault", expected: []string{"Clio", "Megane"}},
		{name: "Dacia", make: "Dacia", expected: []string{"Logan"}},
		{name: "UnknownMake", make: "Tesla", expected: []string{NoModelsPlaceholder}},
		{name: "EmptyMake", make: "", expected: []string{NoModelsPlaceholder}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, tc.expected, c.Lookup(tc.make))
		})
	}

	assert.Equal(t, []string{"Renault", "Dacia"}, c.Makes())
	assert.Equal(t, []string{"Bon", "Excellent", "Moyen"}, c.Conditions())
}

func TestLookupReturnsCopy(t *testing.T) {
	c := Build([]dal.Listing{{Make: "Renault", Model: "Clio"}})
	got := c.Lookup("Renault")
	got[0] = "mutated"
	assert.Equal(t, []string{"Clio"}, c.Lookup("Renault"))
}

func TestReadCSVMissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("annee,prix\n2015,1000\n"))
	assert.Error(t, err)
}

func TestLoadFileMissingDataset(t *testing.T) {
	c := LoadFile(filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop())
	require.NotNil(t, c)
	assert.Zero(t, c.Len())
	assert.Equal(t, []string{NoModelsPlaceholder}, c.Lookup("Renault"))
	assert.Equal(t, DefaultConditions, c.Conditions())
}

func TestLoadSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"marque", "modele", "etat"}).
		AddRow("Peugeot", "208", "Bon").
		AddRow("Peugeot", "308", "").
		AddRow("Peugeot", "208", "Excellent")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT marque, modele, COALESCE(etat, '') FROM listings")).
		WillReturnRows(rows)

	c := LoadSQL(context.Background(), db, "listings", zap.NewNop())

	assert.Equal(t, []string{"208", "308"}, c.Lookup("Peugeot"))
	assert.Equal(t, []string{"Bon", "Excellent"}, c.Conditions())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSQLFailsSoftly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	c := LoadSQL(context.Background(), db, "listings", zap.NewNop())
	assert.Zero(t, c.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryListingsRejectsBadTable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = QueryListings(context.Background(), db, "listings; DROP TABLE x")
	assert.Error(t, err)
}
