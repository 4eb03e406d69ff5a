package epub

import "fmt"

// Position identifiers use a fixed-width spine step and rune offset so
// they order lexically and survive round trips through storage:
// epubcfi(/6/0004!/00000123) is rune 123 of the second spine item.

func makeCFI(spineIndex, offset int) string {
	return fmt.Sprintf("epubcfi(/6/%04d!/%08d)", (spineIndex+1)*2, offset)
}

func parseCFI(cfi string) (spineIndex, offset int, ok bool) {
	var step int
	if _, err := fmt.Sscanf(cfi, "epubcfi(/6/%d!/%d)", &step, &offset); err != nil {
		return 0, 0, false
	}
	if step < 2 || step%2 != 0 {
		return 0, 0, false
	}
	return step/2 - 1, offset, true
}
