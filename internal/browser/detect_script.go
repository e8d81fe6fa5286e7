package browser

import (
	"fmt"

	"webtest-pilot/internal/entity"
)

// tag queried per element type; "link" is the odd one out.
var elementTypeTags = map[entity.ElementType]string{
	entity.ElementTypeInput:  "input",
	entity.ElementTypeButton: "button",
	entity.ElementTypeSelect: "select",
	entity.ElementTypeLink:   "a",
}

// collectScript enumerates every node of one tag and captures its
// identifying attributes plus the ancestor chain needed for XPath
// synthesis. Per-node failures are isolated: a throwing node still yields
// a record, just without a usable path.
func collectScript(tag string) string {
	return fmt.Sprintf(`(() => {
		const result = [];
		const nodes = document.querySelectorAll('%s');

		for (const el of nodes) {
			const record = {
				id: el.id || '',
				name: el.getAttribute('name') || '',
				class: (typeof el.className === 'string') ? el.className : '',
				text: '',
				anchor: '',
				path: [],
				pathOk: false
			};

			try {
				const text = (el.innerText || '').trim();
				record.text = text !== '' ? text : (el.getAttribute('value') || '');

				if (el.id === '') {
					const segments = [];
					let anchor = '';
					let current = el;
					let rooted = false;

					while (current && current !== document.body) {
						const parent = current.parentElement;
						if (!parent) {
							break;
						}

						let index = 1;
						let sibling = current.previousElementSibling;
						while (sibling) {
							if (sibling.tagName === current.tagName) {
								index++;
							}
							sibling = sibling.previousElementSibling;
						}

						segments.unshift({tag: current.tagName.toLowerCase(), index: index});

						if (parent.id !== '') {
							anchor = parent.id;
							rooted = true;
							break;
						}

						if (parent === document.body) {
							rooted = true;
						}

						current = parent;
					}

					record.anchor = anchor;
					record.path = segments;
					record.pathOk = rooted;
				} else {
					record.pathOk = true;
				}
			} catch (e) {
				record.pathOk = false;
			}

			result.push(record);
		}

		return result;
	})()`, tag)
}
