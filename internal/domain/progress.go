package domain

// ProgressFunc reports fetch progress.
// Called repeatedly during pagination: (50, 500), (100, 500), ...
// total is 0 when the source does not announce it.
type ProgressFunc func(loaded, total int)
