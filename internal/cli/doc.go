// Package cli provides the interactive SecureNotes terminal client.
//
// Open wires configuration, the notes database, the secret store and the
// services, and provisions the master key. App.Run then starts the
// inactivity watcher and the backgrounding signal handler and runs the REPL
// until the user exits.
//
// Commands while locked:
//
//	help, login, exit
//
// Commands while authenticated:
//
//	list [category-id]   list notes, optionally of one category
//	show <id>            print a note
//	addnote              create a note
//	editnote <id>        replace a note's title and content
//	delete <id>          delete a note
//	categories           list categories
//	addcategory          create a category
//	delcategory <id>     delete a category
//	changepin            change the PIN
//	wipe                 destroy all data
//	logout, exit
package cli
