package student

// Package student documents the student archive contract. The only input is
// `<output>/<name>-graded.zip` (artifact.GradedZip); without it Run returns
// ErrGradedMissing and writes nothing. The archive is unpacked into
// `<output>/<name>-graded`, renamed to `<name>-student`, and handed to
// sanitize.Directory with the default exclusions plus the project's
// private_files. The sanitized tree is zipped to `<output>/<name>-student.zip`
// (artifact.StudentZip) and the staging directory is deleted. A failure part
// way leaves the staging tree in place for inspection.
