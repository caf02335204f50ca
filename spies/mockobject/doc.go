// Package mockobject provides mock objects built on top of spies.
//
// A Mock maps method names to spies and dispatches every invocation through Invoke,
// which looks the method up by name. Invoking a method that was never configured fails with
// spies.ErrUndefinedBehavior, unless the Mock was created WithIgnoreMissing, in which case it returns nil.
//
// Usage examples:
//
//	repository := mockobject.New("BookRepository")
//	repository.Method("FindByID").WithArguments("book-1").AndReturn(book)
//
//	found, err := repository.Invoke("FindByID", "book-1")
//
//	// One spy per method of an interface
//	repository, err := mockobject.FromInterface[BookRepository]()
package mockobject
