// list-to-sheets keeps a collector's record list in shape: it sorts
// the list's workbook sheets by title group and country preference, and
// mirrors the newest published copy of the list to a remote bucket.
package main

func main() {
	Execute()
}
