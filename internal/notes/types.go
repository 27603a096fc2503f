package notes

// User is the signed-in backend account.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Notebook is one notebook in the user's account.
type Notebook struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Section is one section inside a notebook.
type Section struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Page is one page inside a section.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Question is one generated review question.
type Question struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// Answer pairs a review question with what the user typed. The slice of
// these is what gets submitted for batch analysis.
type Answer struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}
