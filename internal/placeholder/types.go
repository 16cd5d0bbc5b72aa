package placeholder

// Geo holds the coordinates JSONPlaceholder attaches to an address.
type Geo struct {
	Lat string `json:"lat" yaml:"lat"`
	Lng string `json:"lng" yaml:"lng"`
}

// Address is a user's postal address.
type Address struct {
	Street  string `json:"street" yaml:"street"`
	Suite   string `json:"suite" yaml:"suite"`
	City    string `json:"city" yaml:"city"`
	Zipcode string `json:"zipcode" yaml:"zipcode"`
	Geo     Geo    `json:"geo" yaml:"geo"`
}

// Company describes a user's employer.
type Company struct {
	Name        string `json:"name" yaml:"name"`
	CatchPhrase string `json:"catchPhrase" yaml:"catchPhrase"`
	BS          string `json:"bs" yaml:"bs"`
}

// User mirrors /users/{id}.
type User struct {
	ID       int     `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Username string  `json:"username" yaml:"username"`
	Email    string  `json:"email" yaml:"email"`
	Address  Address `json:"address" yaml:"address"`
	Phone    string  `json:"phone" yaml:"phone"`
	Website  string  `json:"website" yaml:"website"`
	Company  Company `json:"company" yaml:"company"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
}

// UpdateUserRequest is the body of PUT /users/{id}.
type UpdateUserRequest struct {
	ID       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Post mirrors /posts/{id}.
type Post struct {
	UserID int    `json:"userId" yaml:"userId"`
	ID     int    `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Body   string `json:"body" yaml:"body"`
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// UpdatePostRequest is the body of PUT /posts/{id}.
type UpdatePostRequest struct {
	ID     int    `json:"id"`
	Title  string `json:"title,omitempty"`
	Body   string `json:"body,omitempty"`
	UserID int    `json:"userId,omitempty"`
}

// Comment mirrors /comments/{id}.
type Comment struct {
	PostID int    `json:"postId" yaml:"postId"`
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Body   string `json:"body" yaml:"body"`
}

// CreateCommentRequest is the body of POST /comments.
type CreateCommentRequest struct {
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// UpdateCommentRequest is the body of PUT /comments/{id}; empty fields are omitted.
type UpdateCommentRequest struct {
	PostID int    `json:"postId,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Body   string `json:"body,omitempty"`
}
