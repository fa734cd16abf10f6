// Command sqlagent answers questions about the STUDENT table from the terminal.
package main

func main() {
	Execute()
}
