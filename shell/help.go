package shell

const helptext = `commands:
new <n> - start an empty board with n columns
board <n> <cells> - load a flat board of n*(n+3) cells, e.g. board 3 ..................
turn <symbol> - set the player to move
show - show the current board
drop <col> - drop a pebble for the player to move
rotate <col> - rotate a column for the player to move
solve [seconds] [-depth plies] [-threads t] - recommend a move for the player to move
help - show this message
exit - quit the shell`

func usage() string {
	return helptext
}
