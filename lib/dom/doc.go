// Package dom is the in-process DOM substrate components attach to.
//
// A Document owns a golang.org/x/net/html node tree together with the
// listener tables for every node in it. Nodes are plain *html.Node values;
// a Selection is the queryable wrapper over zero or more of them.
//
//	doc, _ := dom.ParseString(`<ul id="list"><li>a</li><li>b</li></ul>`)
//	items, _ := doc.Select("#list li")
//	items.On("click", dom.NewListener(func(ev *dom.Event, data any) {
//	    fmt.Println("clicked", ev.Target.Data)
//	}))
//	items.Trigger(dom.NewEvent("click"), nil)
//
// Selectors are CSS (via cascadia) unless they start with "/", "./" or
// "(", in which case they are evaluated as XPath (via htmlquery).
//
// Events bubble from the target to the document root. Each listener is
// tagged with a GUID; listeners sharing a GUID are removed together, so a
// caller can unbind a wrapped listener through the identity of the original.
package dom
