// Package mail renders the transactional templates and delivers them.
//
// Template names match the file names under templates/ without the .html
// suffix: "activation", "order-confirmation" and "question-reply". [SMTP]
// sends through an SMTP relay with go-mail; [Recorder] keeps messages in
// memory.
package mail
