package components

import (
    "strings"

    twmerge "github.com/Oudwins/tailwind-merge-go"
)

const (
    buttonBase   = "rounded-md px-4 py-2 text-sm font-medium text-white bg-blue-600 hover:bg-blue-700"
    inputBase    = "rounded-md border border-gray-300 px-3 py-2 text-base"
    previewFrame = "flex items-center justify-center bg-white p-3 w-[500px] h-[500px]"
    toastBase    = "rounded-md px-4 py-3 text-white shadow bg-gray-800"
)

func button(extra string) string { return twmerge.Merge(buttonBase, extra) }

// inlineSVG strips the XML declaration so the document can sit inside HTML.
func inlineSVG(doc string) string {
    if i := strings.Index(doc, "<svg"); i > 0 {
        return doc[i:]
    }
    return doc
}

var toastClasses = map[ToastVariant]string{
    ToastSuccess: "bg-green-600",
    ToastError:   "bg-red-600",
    ToastWarning: "bg-yellow-500",
    ToastInfo:    "bg-blue-600",
}

func toastClass(v ToastVariant) string {
    cls, ok := toastClasses[v]
    if !ok {
        cls = toastClasses[ToastSuccess]
    }
    return twmerge.Merge(toastBase, cls)
}
