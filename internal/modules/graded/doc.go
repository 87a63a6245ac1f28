package graded

// Package graded documents the graded archive contract. The source tree is
// `<directory>/eclipse-projects/<name>-graded`; its `bin/` folder is deleted
// first so compiled classes never ship. zip runs inside `eclipse-projects/`
// so archive entries are rooted at `<name>-graded/`, and the finished zip is
// moved to `<output>/<name>-graded.zip` (artifact.GradedZip), replacing any
// earlier copy.
