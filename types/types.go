package types

// User is an account that can authenticate against the API with its token.
type User struct {
	Id         int64  `db:"id"`
	Name       string `db:"name"`
	Token      string `db:"token"`
	Permission bool   `db:"permission"` // true once the owner authorized uploads
}

// Image is an uploaded image in the database. Filename is the name of the
// file on disk, which is always Code + "." + extension.
type Image struct {
	Code     string `db:"code"`
	AuthorId int64  `db:"author_id"`
	Title    string `db:"title"`
	Filename string `db:"filename"`
}

// ImageWithAuthor is an Image joined with the name of the user who uploaded it.
type ImageWithAuthor struct {
	Image
	AuthorName string `db:"author_name"`
}
