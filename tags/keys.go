package tags

// Well-known comment keys. Keys are free-form, but these names are the
// conventional vocabulary most tools agree on. All are already in the
// uppercase normal form used for storage and lookup.
const (
	KeyTitle        = "TITLE"
	KeyVersion      = "VERSION"
	KeyAlbum        = "ALBUM"
	KeyTrackNumber  = "TRACKNUMBER"
	KeyArtist       = "ARTIST"
	KeyPerformer    = "PERFORMER"
	KeyCopyright    = "COPYRIGHT"
	KeyLicense      = "LICENSE"
	KeyOrganization = "ORGANIZATION"
	KeyDescription  = "DESCRIPTION"
	KeyGenre        = "GENRE"
	KeyDate         = "DATE"
	KeyLocation     = "LOCATION"
	KeyContact      = "CONTACT"
	KeyISRC         = "ISRC"
)
