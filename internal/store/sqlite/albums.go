package sqlite

import (
	"time"

	"github.com/tripframe/tripframe-server/internal/domain"
)

// Table names.
const (
	TableAlbums       = "albums"
	TableAlbumTags    = "album_tags"
	TableAlbumTagsMap = "album_tags_map"
	TableTravel       = "travel_records"
)

var albumColumns = []string{
	"id", "albumName", "description", "albumCover", "isPrivate", "isFeatured",
	"place", "year", "createdAt", "createdBy", "updatedAt", "updatedBy",
}

// AlbumSchema maps domain.Album onto the albums table. Tags are not a
// column; they live in album_tags_map and are attached by the caller.
var AlbumSchema = Schema[domain.Album]{
	Table:   TableAlbums,
	Key:     "id",
	Columns: albumColumns,
	Decode:  RowToAlbum,
}

// AlbumTable returns the table service for albums.
func AlbumTable(s *Store) *Table[domain.Album] {
	return NewTable(s, AlbumSchema)
}

// AlbumRow flattens an album for insertion. Empty optional text columns are
// left out; booleans are always written.
func AlbumRow(a *domain.Album) (Row, error) {
	row := Row{
		"id":         Text(a.ID),
		"albumName":  Text(a.AlbumName),
		"year":       Text(a.Year),
		"isPrivate":  Bool(a.IsPrivate),
		"isFeatured": Bool(a.IsFeatured),
	}
	putText(row, "description", a.Description)
	putText(row, "albumCover", a.AlbumCover)
	putText(row, "createdBy", a.CreatedBy)
	putText(row, "updatedBy", a.UpdatedBy)
	putTime(row, "createdAt", a.CreatedAt)
	putTime(row, "updatedAt", a.UpdatedAt)

	if a.Place != nil {
		v, err := JSON(a.Place)
		if err != nil {
			return nil, err
		}
		row["place"] = v
	}
	return row, nil
}

// AlbumPatchRow flattens the scalar fields of a patch. Tags are ignored.
// The audit columns are always stamped, so a tags-only patch still
// produces a non-empty row.
func AlbumPatchRow(p *domain.AlbumPatch, updatedAt time.Time, updatedBy string) (Row, error) {
	row := Row{"updatedAt": Time(updatedAt)}
	if updatedBy != "" {
		row["updatedBy"] = Text(updatedBy)
	}
	if p.Year != nil {
		row["year"] = Text(*p.Year)
	}
	if p.AlbumName != nil {
		row["albumName"] = Text(*p.AlbumName)
	}
	if p.Description != nil {
		row["description"] = Text(*p.Description)
	}
	if p.AlbumCover != nil {
		row["albumCover"] = Text(*p.AlbumCover)
	}
	if p.IsPrivate != nil {
		row["isPrivate"] = Bool(*p.IsPrivate)
	}
	if p.IsFeatured != nil {
		row["isFeatured"] = Bool(*p.IsFeatured)
	}
	if p.Place != nil {
		v, err := JSON(p.Place)
		if err != nil {
			return nil, err
		}
		row["place"] = v
	}
	return row, nil
}

// RowToAlbum rebuilds an album from a scanned row. Tags is left empty.
func RowToAlbum(rec Record) (*domain.Album, error) {
	a := &domain.Album{
		ID:          rec.Text("id"),
		AlbumName:   rec.Text("albumName"),
		Description: rec.Text("description"),
		AlbumCover:  rec.Text("albumCover"),
		IsPrivate:   rec.Bool("isPrivate"),
		IsFeatured:  rec.Bool("isFeatured"),
		Year:        rec.Text("year"),
		CreatedBy:   rec.Text("createdBy"),
		UpdatedBy:   rec.Text("updatedBy"),
		Tags:        []string{},
	}

	var place domain.Place
	ok, err := rec.JSON("place", &place)
	if err != nil {
		return nil, err
	}
	if ok {
		a.Place = &place
	}

	if a.CreatedAt, err = rec.Time("createdAt"); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = rec.Time("updatedAt"); err != nil {
		return nil, err
	}
	return a, nil
}

// TagSchema maps the shared tag vocabulary.
var TagSchema = Schema[domain.AlbumTag]{
	Table:   TableAlbumTags,
	Key:     "tag",
	Columns: []string{"tag", "createdAt", "createdBy"},
	Decode: func(rec Record) (*domain.AlbumTag, error) {
		t := &domain.AlbumTag{
			Tag:       rec.Text("tag"),
			CreatedBy: rec.Text("createdBy"),
		}
		var err error
		if t.CreatedAt, err = rec.Time("createdAt"); err != nil {
			return nil, err
		}
		return t, nil
	},
}

// TagTable returns the table service for the tag vocabulary.
func TagTable(s *Store) *Table[domain.AlbumTag] {
	return NewTable(s, TagSchema)
}

// TagRow flattens a vocabulary entry.
func TagRow(t *domain.AlbumTag) Row {
	row := Row{"tag": Text(t.Tag)}
	putTime(row, "createdAt", t.CreatedAt)
	putText(row, "createdBy", t.CreatedBy)
	return row
}

// TagMapSchema maps the album/tag join table. It has a composite key, so
// rows are addressed through filters only.
var TagMapSchema = Schema[domain.AlbumTagsMap]{
	Table:   TableAlbumTagsMap,
	Columns: []string{"albumId", "tag"},
	Decode: func(rec Record) (*domain.AlbumTagsMap, error) {
		return &domain.AlbumTagsMap{
			AlbumID: rec.Text("albumId"),
			Tag:     rec.Text("tag"),
		}, nil
	},
}

// TagMapTable returns the table service for the join table.
func TagMapTable(s *Store) *Table[domain.AlbumTagsMap] {
	return NewTable(s, TagMapSchema)
}

// TagMapRow flattens one membership.
func TagMapRow(albumID, tag string) Row {
	return Row{"albumId": Text(albumID), "tag": Text(tag)}
}

func putText(row Row, col, s string) {
	if s != "" {
		row[col] = Text(s)
	}
}

func putTime(row Row, col string, t time.Time) {
	if !t.IsZero() {
		row[col] = Time(t)
	}
}
